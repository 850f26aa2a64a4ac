package model

// Color is a journal entry's label from the fixed palette. Anything
// outside the palette normalizes to blue rather than erroring.
type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

// colorHex is the only color-to-hex mapping in the codebase. Clients
// read it through GET /journal/colors instead of keeping their own copy.
var colorHex = map[Color]string{
	ColorRed:    "#e57373",
	ColorOrange: "#ffb74d",
	ColorYellow: "#fff176",
	ColorGreen:  "#81c784",
	ColorBlue:   "#64b5f6",
	ColorPurple: "#ba68c8",
	ColorPink:   "#f06292",
	ColorGray:   "#90a4ae",
}

// paletteOrder fixes the order the palette is presented in.
var paletteOrder = []Color{
	ColorRed, ColorOrange, ColorYellow, ColorGreen,
	ColorBlue, ColorPurple, ColorPink, ColorGray,
}

func (c Color) Valid() bool {
	_, ok := colorHex[c]
	return ok
}

// Normalize returns c when it names a palette color and blue otherwise.
func (c Color) Normalize() Color {
	if c.Valid() {
		return c
	}
	return ColorBlue
}

// Hex returns the display hex code for c, normalizing first.
func (c Color) Hex() string {
	return colorHex[c.Normalize()]
}

// Palette returns the full palette in presentation order.
func Palette() []Color {
	out := make([]Color, len(paletteOrder))
	copy(out, paletteOrder)
	return out
}

type JournalEntry struct {
	ID     string   `bson:"_id,omitempty" json:"id"`
	UserID string   `bson:"user_id,omitempty" json:"-"`
	Date   string   `bson:"date" json:"date" binding:"required"`
	Title  string   `bson:"title" json:"title" binding:"required"`
	Time   string   `bson:"time" json:"time"`
	Text   string   `bson:"text" json:"text"`
	Color  Color    `bson:"color" json:"color"`
	Photos []string `bson:"photos" json:"photos"`
}

// Normalize fills derived defaults: out-of-palette colors fall back to
// blue and a nil photo list becomes an empty one so API output never
// serializes null.
func (e *JournalEntry) Normalize() {
	e.Color = e.Color.Normalize()
	if e.Photos == nil {
		e.Photos = []string{}
	}
}
