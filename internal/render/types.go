package render

import (
	"github.com/mossforge/duskstep/internal/game"
	"github.com/mossforge/duskstep/internal/protocol"
)

// Color is a renderer-agnostic RGB color; each backend converts it to its
// own native color type.
type Color struct {
	R, G, B uint8
}

var (
	ColorBlack  = Color{0, 0, 0}
	ColorWhite  = Color{230, 230, 230}
	ColorRed    = Color{200, 40, 40}
	ColorGreen  = Color{60, 180, 60}
	ColorYellow = Color{220, 200, 60}
	ColorBlue   = Color{60, 100, 220}
)

// Glyph is what a sprite ID resolves to for text-grid rendering: a
// character plus foreground/background color.
type Glyph struct {
	Char rune
	FG   Color
	BG   Color
}

// SpriteAtlas maps abstract sprite IDs (game.Sprite.ID) to Glyphs for a
// text-grid renderer.
type SpriteAtlas struct {
	glyphs  map[string]Glyph
	unknown Glyph
}

// Get returns id's glyph, falling back to the atlas's unknown glyph.
func (a *SpriteAtlas) Get(id string) Glyph {
	if g, ok := a.glyphs[id]; ok {
		return g
	}
	return a.unknown
}

// DefaultASCIIAtlas maps the demo game's sprite IDs to plain ASCII glyphs.
func DefaultASCIIAtlas() *SpriteAtlas {
	return &SpriteAtlas{
		glyphs: map[string]Glyph{
			"player": {Char: '@', FG: ColorYellow, BG: ColorBlack},
			"enemy":  {Char: 'e', FG: ColorRed, BG: ColorBlack},
			"slime":  {Char: 'o', FG: ColorGreen, BG: ColorBlack},
			"fist":   {Char: '*', FG: ColorWhite, BG: ColorBlack},
		},
		unknown: Glyph{Char: '?', FG: ColorWhite, BG: ColorBlack},
	}
}

// DefaultHalfBlockAtlas maps the same sprite IDs using half-block glyphs,
// for terminals capable of 2x vertical resolution.
func DefaultHalfBlockAtlas() *SpriteAtlas {
	return &SpriteAtlas{
		glyphs: map[string]Glyph{
			"player": {Char: '▀', FG: ColorYellow, BG: ColorBlack},
			"enemy":  {Char: '▀', FG: ColorRed, BG: ColorBlack},
			"slime":  {Char: '▀', FG: ColorGreen, BG: ColorBlack},
			"fist":   {Char: '▪', FG: ColorWhite, BG: ColorBlack},
		},
		unknown: Glyph{Char: '▀', FG: ColorWhite, BG: ColorBlack},
	}
}

// InputEventType classifies an InputEvent.
type InputEventType int

const (
	InputNone InputEventType = iota
	InputKey
	InputQuit
	InputResize
)

// InputEvent is one polled input event from a GameRenderer.
type InputEvent struct {
	Type   InputEventType
	Intent protocol.Intent
	Quit   bool
}

// GameRenderer is the interface cmd/rayman drives: initialize a
// terminal/window, render one frame of the world, and poll input,
// independent of which backend (tcell text grid, Gio window) is active.
type GameRenderer interface {
	Init() error
	Close()
	BeginFrame()
	EndFrame()
	ViewportSize() (float64, float64)
	RenderWorld(world *game.World, camera Camera)
	RenderTileMap(tiles [][]rune, camera Camera)
	RenderText(x, y float64, text string, color Color)
	DrawHUD(text string)
	PollInput() (InputEvent, bool)
}
