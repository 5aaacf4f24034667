package service

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

const (
	// rupeeSign is painted as a vector shape when the font has no glyph for it
	rupeeSign    = '₹'
	// rupeeAdvance is the advance of the painted rupee sign, in ems
	rupeeAdvance = 0.55
)

// FontSet holds the parsed regular and bold fonts used on cards.
// Parsed fonts are shared; faces are created per render because a face is not
// safe for concurrent use.
type FontSet struct {
	regular *opentype.Font
	bold    *opentype.Font

	regularRupee bool
	boldRupee    bool
}

// LoadFontSet parses the fonts at the given paths, falling back to the embedded
// Go fonts for any path that is empty
func LoadFontSet(regularPath, boldPath string) (*FontSet, error) {
	regular, err := parseFont(regularPath, goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	bold, err := parseFont(boldPath, gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	return &FontSet{
		regular:      regular,
		bold:         bold,
		regularRupee: hasGlyph(regular, rupeeSign),
		boldRupee:    hasGlyph(bold, rupeeSign),
	}, nil
}

// DefaultFontSet returns the embedded Go fonts
func DefaultFontSet() *FontSet {
	fs, err := LoadFontSet("", "")
	if err != nil {
		// The embedded fonts are known-good
		panic(err)
	}
	return fs
}

func parseFont(path string, fallback []byte) (*opentype.Font, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return f, nil
}

func hasGlyph(f *opentype.Font, r rune) bool {
	var buf sfnt.Buffer
	idx, err := f.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}

// textSpan is a run of text drawn with the font, or a rupee sign drawn as a shape
type textSpan struct {
	text  string
	rupee bool
}

// spans splits text around rupee signs the font cannot draw
func (fs *FontSet) spans(text string, bold bool) []textSpan {
	hasRupee := fs.regularRupee
	if bold {
		hasRupee = fs.boldRupee
	}
	if hasRupee || !strings.ContainsRune(text, rupeeSign) {
		return []textSpan{{text: text}}
	}

	var out []textSpan
	for text != "" {
		i := strings.IndexRune(text, rupeeSign)
		switch {
		case i < 0:
			out = append(out, textSpan{text: text})
			text = ""
		case i > 0:
			out = append(out, textSpan{text: text[:i]})
			text = text[i:]
		default:
			out = append(out, textSpan{text: string(rupeeSign), rupee: true})
			text = text[utf8.RuneLen(rupeeSign):]
		}
	}
	return out
}

type faceKey struct {
	size float64
	bold bool
}

// faceCache creates faces lazily for a single render call
type faceCache struct {
	fonts *FontSet
	scale float64
	faces map[faceKey]font.Face
}

func newFaceCache(fonts *FontSet, scale float64) *faceCache {
	return &faceCache{fonts: fonts, scale: scale, faces: make(map[faceKey]font.Face)}
}

// face returns the face for a style at the cache's scale
func (c *faceCache) face(style textStyle) (font.Face, error) {
	key := faceKey{size: style.Size * c.scale, bold: style.Bold}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	src := c.fonts.regular
	if style.Bold {
		src = c.fonts.bold
	}
	// Unhinted advances scale linearly, so widths measured at scale 1 match
	// what is painted at the render scale
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	c.faces[key] = f
	return f, nil
}

// Measure implements TextMeasurer. Widths are returned in logical units.
func (c *faceCache) Measure(text string, style textStyle) float64 {
	f, err := c.face(style)
	if err != nil {
		// Rough estimate keeps layout going with a broken font
		return float64(len([]rune(text))) * style.Size * 0.6
	}
	var w float64
	for _, sp := range c.fonts.spans(text, style.Bold) {
		w += spanAdvance(f, sp, style.Size*c.scale)
	}
	return w / c.scale
}

// spanAdvance returns the width of sp in pixels for a face of size px
func spanAdvance(f font.Face, sp textSpan, px float64) float64 {
	if sp.rupee {
		return rupeeAdvance * px
	}
	return fixedToFloat(font.MeasureString(f, sp.text))
}

func (c *faceCache) close() {
	for _, f := range c.faces {
		_ = f.Close()
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
