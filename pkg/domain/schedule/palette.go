package schedule

// Palette is a fixed, finite set of terminal color codes handed out to
// resources in first-seen order. Slots wrap around once exhausted.
type Palette []string

// DefaultPalette holds ANSI 256 color codes that read well against the
// board background.
var DefaultPalette = Palette{
	"42",  // green
	"208", // orange
	"63",  // violet
	"205", // pink
	"81",  // cyan
	"220", // yellow
	"167", // red
	"111", // blue
}

// At returns the palette slot for the given first-seen index, wrapping
// when the index exceeds the palette size.
func (p Palette) At(index int) string {
	if len(p) == 0 {
		return ""
	}
	return p[index%len(p)]
}
