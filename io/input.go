package io

// Input is the input collaborator. Poll applies every pending key
// transition through apply, mapping whatever physical events exist onto
// the 16-key pad indexes. The driver polls before each frame so the key
// test opcodes observe current state.
type Input interface {
	Poll(apply func(key uint8, pressed bool)) error
}

// Keys is a scripted Input holding a fixed key state.
type Keys struct {
	Pressed [16]bool
}

var _ Input = (*Keys)(nil)

func (keys *Keys) Poll(apply func(key uint8, pressed bool)) (err error) {
	for n, down := range keys.Pressed {
		apply(uint8(n), down)
	}

	return
}
