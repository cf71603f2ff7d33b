package render

// BrailleRenderer renders using braille patterns (2x4 dots per cell)
type BrailleRenderer struct {
	width, height int
	// TODO: Screen buffer
}

// Braille base character and dot positions:
// ⠁⠂⠄⡀  (dots 1,2,3,7)
// ⠈⠐⠠⢀  (dots 4,5,6,8)
// Combined: 256 patterns from ⠀ (0x2800) to ⣿ (0x28FF)

const brailleBase = 0x2800

// Dot offsets within a braille cell
var brailleDots = [8]rune{
	0x01, // dot 1 (top-left)
	0x02, // dot 2
	0x04, // dot 3
	0x40, // dot 7
	0x08, // dot 4 (top-right)
	0x10, // dot 5
	0x20, // dot 6
	0x80, // dot 8
}

// NewBrailleRenderer creates a braille renderer
func NewBrailleRenderer() *BrailleRenderer {
	return &BrailleRenderer{}
}

func (r *BrailleRenderer) Init() error {
	// TODO: Initialize terminal
	r.width, r.height = 160, 96 // 2x4 resolution multiplier
	return nil
}

func (r *BrailleRenderer) Close() {
	// TODO: Restore terminal
}

func (r *BrailleRenderer) Clear() {
	// TODO: Clear buffer
}

func (r *BrailleRenderer) SetCell(x, y int, ch rune, fg, bg Color) {
	// TODO: Map to braille dot position
	// Each terminal cell is 2x4 "pixels"
}

func (r *BrailleRenderer) Flush() {
	// TODO: Combine dots into braille characters, write to stdout
}

func (r *BrailleRenderer) Size() (int, int) {
	return r.width, r.height
}
