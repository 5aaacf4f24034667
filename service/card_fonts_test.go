package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"hitech-quotation-tool/models"
)

func TestFontSetSpansSplitMissingRupee(t *testing.T) {
	fonts := DefaultFontSet()
	require.False(t, fonts.boldRupee, "embedded bold font has no rupee glyph")

	assert.Equal(t, []textSpan{{text: "₹", rupee: true}, {text: "1,25,000"}}, fonts.spans("₹1,25,000", true))
	assert.Equal(t, []textSpan{{text: "From "}, {text: "₹", rupee: true}, {text: "99"}}, fonts.spans("From ₹99", false))
	assert.Equal(t, []textSpan{{text: "499"}}, fonts.spans("499", true))
}

func TestFontSetSpansKeepTextWhenGlyphExists(t *testing.T) {
	fonts := DefaultFontSet()
	fonts.boldRupee = true
	assert.Equal(t, []textSpan{{text: "₹499"}}, fonts.spans("₹499", true))
}

func TestHasGlyph(t *testing.T) {
	regular, err := opentype.Parse(goregular.TTF)
	require.NoError(t, err)
	bold, err := opentype.Parse(gobold.TTF)
	require.NoError(t, err)

	assert.True(t, hasGlyph(regular, 'A'))
	assert.True(t, hasGlyph(bold, '4'))
	assert.False(t, hasGlyph(bold, rupeeSign))
}

func TestMeasureIncludesPaintedRupee(t *testing.T) {
	measure := newFaceCache(DefaultFontSet(), 1)
	defer measure.close()

	digits := measure.Measure("499", priceStyle)
	withSign := measure.Measure("₹499", priceStyle)
	assert.InDelta(t, digits+rupeeAdvance*priceStyle.Size, withSign, 0.01)
}

func TestMeasureMatchesAcrossScales(t *testing.T) {
	fonts := DefaultFontSet()
	logical := newFaceCache(fonts, 1)
	defer logical.close()
	scaled := newFaceCache(fonts, 2)
	defer scaled.close()

	for _, text := range []string{"HI TECH SALES AND SERVICES", "BRASS GATE VALVE 25MM", "₹1,25,000"} {
		for _, style := range []textStyle{titleStyle, nameStyle, priceStyle} {
			assert.InDelta(t, logical.Measure(text, style), scaled.Measure(text, style), 0.5, text)
		}
	}
}

func TestPainterDrawsRupeeInsteadOfMissingGlyph(t *testing.T) {
	fonts := DefaultFontSet()
	el := models.CardElement{
		Kind: models.ElementPriceButton,
		Rect: models.Rect{X: 0, Y: 0, W: 120, H: 60},
		Text: "₹",
	}

	faces := newFaceCache(fonts, 1)
	defer faces.close()
	painter := newCardPainter(1, faces, cardAssets{})
	require.NoError(t, painter.text(el, colorDarkText, alignCenter))

	// Same text through the font alone draws the missing-glyph box
	boxFaces := newFaceCache(fonts, 1)
	defer boxFaces.close()
	boxPainter := newCardPainter(1, boxFaces, cardAssets{})
	face, err := boxFaces.face(priceStyle)
	require.NoError(t, err)
	boxPainter.dc.SetFontFace(face)
	boxPainter.dc.SetColor(colorDarkText)
	boxPainter.dc.DrawStringAnchored("₹", 60, 40, 0.5, 0)

	drawn, err := painter.encode()
	require.NoError(t, err)
	box, err := boxPainter.encode()
	require.NoError(t, err)
	assert.False(t, bytes.Equal(drawn, box))

	blank, err := newCardPainter(1, faces, cardAssets{}).encode()
	require.NoError(t, err)
	assert.False(t, bytes.Equal(drawn, blank), "rupee sign painted nothing")
}
