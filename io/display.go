// Package io provides the collaborator shims around the CHIP-8 core:
// the display surface, the 16-key input matrix, and program (ROM)
// acquisition. The core itself performs no I/O; everything here adapts
// an external surface onto the core's read and mutate interfaces.
package io

// Display is the presentation collaborator. Render receives the 64x32
// row-major framebuffer after every frame; scaling, coloring, and
// blitting are the implementation's concern.
type Display interface {
	Render(video []bool) error
}

// Buffer is an in-memory Display retaining the last rendered frame.
type Buffer struct {
	Frame []bool
}

var _ Display = (*Buffer)(nil)

func (buf *Buffer) Render(video []bool) (err error) {
	buf.Frame = append(buf.Frame[:0], video...)

	return
}
