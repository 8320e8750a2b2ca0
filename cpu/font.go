package cpu

// Memory layout constants.
const (
	MEMORY_SIZE   = 4096  // Total addressable memory in bytes.
	PROGRAM_START = 0x200 // Load address for program bytes.
	FONT_ADDRESS  = 0x50  // Load address for the builtin font glyphs.
	FONT_HEIGHT   = 5     // Bytes (rows) per font glyph.
)

// Display dimensions, in pixels.
const (
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32
)

// fontset holds one 8x5 glyph per hexadecimal digit. Programs depend on
// the exact bit patterns at FONT_ADDRESS for their pixel output, so this
// data must be identical across implementations.
var fontset = [16 * FONT_HEIGHT]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}
