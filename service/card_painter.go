package service

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"hitech-quotation-tool/models"
)

// Card palette
var (
	colorCanvas      = hexColor("#F3F4F6")
	colorCardFill    = hexColor("#FFFFFF")
	colorShadow      = color.NRGBA{A: 56}
	colorBrand       = hexColor("#2B7FED")
	colorBrandLight  = hexColor("#60A5FA")
	colorTrayTop     = hexColor("#EFF6FF")
	colorTrayBottom  = hexColor("#DBEAFE")
	colorPlaceholder = hexColor("#D1D5DB")
	colorDarkText    = hexColor("#1A1A1A")
	colorGrayText    = hexColor("#6B7280")
	colorPriceTop    = hexColor("#3B82F6")
	colorPriceBottom = hexColor("#2563EB")
	colorWhite       = hexColor("#FFFFFF")
)

const (
	shadowBlurSigma = 8.0
	badgeRadius     = badgeHeight / 2
	placeholderR    = 16.0
	logoRadius      = 10.0
)

// hexColor parses "#RRGGBB"
func hexColor(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// cardPainter draws a laid-out card onto its own gg surface
type cardPainter struct {
	dc     *gg.Context
	scale  float64
	faces  *faceCache
	assets cardAssets
}

func newCardPainter(scale float64, faces *faceCache, assets cardAssets) *cardPainter {
	dc := gg.NewContext(int(cardWidth*scale), int(cardHeight*scale))
	dc.SetColor(colorCanvas)
	dc.Clear()
	return &cardPainter{dc: dc, scale: scale, faces: faces, assets: assets}
}

// s converts logical units to pixels
func (p *cardPainter) s(v float64) float64 { return v * p.scale }

// paint draws every element; a failing element is logged and skipped
func (p *cardPainter) paint(elements []models.CardElement) {
	for _, e := range elements {
		if err := p.paintElement(e); err != nil {
			log.Printf("⚠️  Card painter: failed to paint %s: %v", e.Kind, err)
		}
	}
}

func (p *cardPainter) paintElement(e models.CardElement) error {
	r := e.Rect
	switch e.Kind {
	case models.ElementShadow:
		p.paintShadow(r)
	case models.ElementCard:
		p.fillRounded(r, cardRadius, colorCardFill)
	case models.ElementLogo:
		p.drawImage(p.assets.Logo, r, logoRadius)
	case models.ElementLogoFallback:
		p.fillRounded(r, logoRadius, colorBrand)
		return p.text(e, colorWhite, alignCenter)
	case models.ElementTitle:
		return p.text(e, colorDarkText, alignLeft)
	case models.ElementSeparator:
		g := gg.NewLinearGradient(p.s(r.X), 0, p.s(r.X+r.W), 0)
		g.AddColorStop(0, colorBrand)
		g.AddColorStop(1, colorBrandLight)
		p.dc.DrawRectangle(p.s(r.X), p.s(r.Y), p.s(r.W), p.s(r.H))
		p.dc.SetFillStyle(g)
		p.dc.Fill()
	case models.ElementTray:
		p.fillVerticalGradient(r, trayRadius, colorTrayTop, colorTrayBottom)
	case models.ElementProductImage:
		p.drawImage(p.assets.Product, r, placeholderR)
	case models.ElementNoImage:
		p.fillRounded(r, placeholderR, colorPlaceholder)
		return p.text(e, colorGrayText, alignCenter)
	case models.ElementNameLine:
		return p.text(e, colorDarkText, alignLeft)
	case models.ElementCategory:
		p.fillRounded(r, badgeRadius, colorBrand)
		inner := e
		inner.Rect.X += badgePaddingX
		return p.text(inner, colorWhite, alignLeft)
	case models.ElementDescription:
		return p.text(e, colorGrayText, alignLeft)
	case models.ElementPriceButton:
		p.fillVerticalGradient(r, priceRadius, colorPriceTop, colorPriceBottom)
		return p.text(e, colorWhite, alignCenter)
	}
	return nil
}

// paintShadow blurs a translucent silhouette on a separate layer so the card floats
func (p *cardPainter) paintShadow(r models.Rect) {
	w, h := p.dc.Width(), p.dc.Height()
	layer := gg.NewContext(w, h)
	layer.DrawRoundedRectangle(p.s(r.X), p.s(r.Y), p.s(r.W), p.s(r.H), p.s(cardRadius))
	layer.SetColor(colorShadow)
	layer.Fill()
	blurred := imaging.Blur(layer.Image(), shadowBlurSigma*p.scale)
	p.dc.DrawImage(blurred, 0, 0)
}

func (p *cardPainter) fillRounded(r models.Rect, radius float64, c color.Color) {
	p.dc.DrawRoundedRectangle(p.s(r.X), p.s(r.Y), p.s(r.W), p.s(r.H), p.s(radius))
	p.dc.SetColor(c)
	p.dc.Fill()
}

func (p *cardPainter) fillVerticalGradient(r models.Rect, radius float64, top, bottom color.Color) {
	g := gg.NewLinearGradient(0, p.s(r.Y), 0, p.s(r.Bottom()))
	g.AddColorStop(0, top)
	g.AddColorStop(1, bottom)
	p.dc.DrawRoundedRectangle(p.s(r.X), p.s(r.Y), p.s(r.W), p.s(r.H), p.s(radius))
	p.dc.SetFillStyle(g)
	p.dc.Fill()
}

// drawImage resizes img to the target rect in pixels and clips it to rounded corners
func (p *cardPainter) drawImage(img image.Image, r models.Rect, radius float64) {
	if img == nil {
		return
	}
	w, h := int(p.s(r.W)+0.5), int(p.s(r.H)+0.5)
	if w <= 0 || h <= 0 {
		return
	}
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	p.dc.Push()
	p.dc.DrawRoundedRectangle(p.s(r.X), p.s(r.Y), p.s(r.W), p.s(r.H), p.s(radius))
	p.dc.Clip()
	p.dc.DrawImage(resized, int(p.s(r.X)+0.5), int(p.s(r.Y)+0.5))
	p.dc.ResetClip()
	p.dc.Pop()
}

type textAlign int

const (
	alignLeft textAlign = iota
	alignCenter
)

// text draws e.Text vertically centred in e.Rect
func (p *cardPainter) text(e models.CardElement, c color.Color, align textAlign) error {
	if e.Text == "" {
		return nil
	}
	style := styleFor(e.Kind)
	face, err := p.faces.face(style)
	if err != nil {
		return err
	}
	metrics := face.Metrics()
	ascent := fixedToFloat(metrics.Ascent)
	descent := fixedToFloat(metrics.Descent)

	r := e.Rect
	baseline := p.s(r.Y+r.H/2) + (ascent-descent)/2
	px := p.s(style.Size)
	spans := p.faces.fonts.spans(e.Text, style.Bold)

	x := p.s(r.X)
	if align == alignCenter {
		var width float64
		for _, sp := range spans {
			width += spanAdvance(face, sp, px)
		}
		x = p.s(r.X+r.W/2) - width/2
	}

	p.dc.SetFontFace(face)
	p.dc.SetColor(c)
	for _, sp := range spans {
		if sp.rupee {
			p.drawRupee(x, baseline, px)
		} else {
			p.dc.DrawString(sp.text, x, baseline)
		}
		x += spanAdvance(face, sp, px)
	}
	return nil
}

// drawRupee strokes the rupee sign with its left edge at x, sitting on baseline,
// for a font of size px. Uses the current colour.
func (p *cardPainter) drawRupee(x, baseline, px float64) {
	pt := func(u, v float64) (float64, float64) { return x + u*px, baseline - v*px }

	p.dc.Push()
	defer p.dc.Pop()
	p.dc.SetLineWidth(0.075 * px)
	p.dc.SetLineCapButt()
	p.dc.SetLineJoinRound()

	for _, v := range []float64{0.69, 0.52} {
		x1, y1 := pt(0.06, v)
		x2, y2 := pt(0.50, v)
		p.dc.DrawLine(x1, y1, x2, y2)
	}
	p.dc.Stroke()

	// Bowl hanging from the top bar, then the diagonal leg
	cx, cy := pt(0.22, 0.555)
	p.dc.NewSubPath()
	p.dc.DrawArc(cx, cy, 0.135*px, -math.Pi/2, math.Pi/2)
	p.dc.LineTo(pt(0.06, 0.42))
	p.dc.LineTo(pt(0.46, 0))
	p.dc.Stroke()
}

// encode returns the surface as PNG bytes
func (p *cardPainter) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, p.dc.Image(), imaging.PNG); err != nil {
		return nil, &models.EncodingError{Err: err}
	}
	return buf.Bytes(), nil
}
