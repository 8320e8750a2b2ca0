package main

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ezrec/uchip8/cpu"
	"github.com/ezrec/uchip8/emulator"
	"github.com/ezrec/uchip8/io"
)

// DefaultScale is the default framebuffer-to-window scale factor.
const DefaultScale = 15

// keymap maps the left hand side of the host keyboard onto the 4x4 pad:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var keymap = map[ebiten.Key]uint8{
	ebiten.KeyDigit1: 0x1,
	ebiten.KeyDigit2: 0x2,
	ebiten.KeyDigit3: 0x3,
	ebiten.KeyDigit4: 0xC,
	ebiten.KeyQ:      0x4,
	ebiten.KeyW:      0x5,
	ebiten.KeyE:      0x6,
	ebiten.KeyR:      0xD,
	ebiten.KeyA:      0x7,
	ebiten.KeyS:      0x8,
	ebiten.KeyD:      0x9,
	ebiten.KeyF:      0xE,
	ebiten.KeyZ:      0xA,
	ebiten.KeyX:      0x0,
	ebiten.KeyC:      0xB,
	ebiten.KeyV:      0xF,
}

// Game adapts the emulator onto the ebiten run loop: one Update is one
// display frame, and Draw scales the framebuffer onto the window.
type Game struct {
	emu   *emulator.Emulator
	frame *ebiten.Image
	pix   []byte
}

var _ ebiten.Game = (*Game)(nil)
var _ io.Display = (*Game)(nil)
var _ io.Input = (*Game)(nil)

// RunGame opens the window and drives the emulator until it halts or
// the user quits.
func RunGame(emu *emulator.Emulator, scale int) (err error) {
	game := &Game{
		emu:   emu,
		frame: ebiten.NewImage(cpu.DISPLAY_WIDTH, cpu.DISPLAY_HEIGHT),
		pix:   make([]byte, cpu.DISPLAY_WIDTH*cpu.DISPLAY_HEIGHT*4),
	}
	emu.Display = game
	emu.Input = game

	ebiten.SetWindowSize(cpu.DISPLAY_WIDTH*scale, cpu.DISPLAY_HEIGHT*scale)
	ebiten.SetWindowTitle("uchip8")
	ebiten.SetTPS(emulator.FRAME_RATE)

	err = ebiten.RunGame(game)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}

	return
}

// Poll applies the current host key state to the pad.
func (game *Game) Poll(apply func(key uint8, pressed bool)) (err error) {
	for host, key := range keymap {
		apply(key, ebiten.IsKeyPressed(host))
	}

	return
}

// Render repaints the frame image from the core framebuffer.
func (game *Game) Render(video []bool) (err error) {
	for n, set := range video {
		lit := byte(0x00)
		if set {
			lit = 0xFF
		}
		game.pix[4*n+0] = lit
		game.pix[4*n+1] = lit
		game.pix[4*n+2] = lit
		game.pix[4*n+3] = 0xFF
	}
	game.frame.WritePixels(game.pix)

	return
}

// Update runs one emulator frame per ebiten tick.
func (game *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	return game.emu.Frame()
}

// Draw scales the frame image onto the window.
func (game *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	var opts ebiten.DrawImageOptions
	opts.GeoM.Scale(
		float64(screen.Bounds().Dx())/cpu.DISPLAY_WIDTH,
		float64(screen.Bounds().Dy())/cpu.DISPLAY_HEIGHT,
	)
	screen.DrawImage(game.frame, &opts)
}

func (game *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
