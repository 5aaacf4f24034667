package service

import (
	"image"
	"math"
	"strings"

	"hitech-quotation-tool/models"
	"hitech-quotation-tool/utils"
)

// Logical card geometry. Everything is laid out in these units and scaled at paint time.
const (
	cardWidth  = 400.0
	cardHeight = 600.0

	cardInset        = 12.0
	cardRadius       = 24.0
	shadowOffset     = 6.0
	contentLeft      = 30.0
	contentWidth     = cardWidth - 2*contentLeft
	headerTop        = 30.0
	logoSize         = 40.0
	titleLeft        = 85.0
	separatorGap     = 15.0
	separatorHeight  = 3.0
	trayGap          = 17.0
	trayLeft         = 25.0
	trayHeight       = 240.0
	trayRadius       = 20.0
	trayPadding      = 16.0
	nameGap          = 22.0
	nameLineHeight   = 26.0
	nameMaxLines     = 2
	nameBottomGap    = 12.0
	badgeHeight      = 28.0
	badgePaddingX    = 12.0
	badgeAdvance     = 40.0
	descLineHeight   = 20.0
	descMaxLines     = 2
	descBottomGap    = 20.0
	priceBottomSpace = 80.0
	priceHeight      = 60.0
	priceRadius      = 16.0
	priceClearance   = 8.0
	noImageText      = "No Image"
)

var (
	titleStyle   = textStyle{Size: 16, Bold: true}
	nameStyle    = textStyle{Size: 20, Bold: true}
	badgeStyle   = textStyle{Size: 13, Bold: true}
	descStyle    = textStyle{Size: 14}
	priceStyle   = textStyle{Size: 32, Bold: true}
	noImageStyle = textStyle{Size: 14}
	glyphStyle   = textStyle{Size: 20, Bold: true}
)

// styleFor returns the font used to paint an element's text
func styleFor(kind models.CardElementKind) textStyle {
	switch kind {
	case models.ElementTitle:
		return titleStyle
	case models.ElementNameLine:
		return nameStyle
	case models.ElementCategory:
		return badgeStyle
	case models.ElementDescription:
		return descStyle
	case models.ElementPriceButton:
		return priceStyle
	case models.ElementLogoFallback:
		return glyphStyle
	default:
		return noImageStyle
	}
}

// cardAssets are the decoded images available to a render. Nil means not available.
type cardAssets struct {
	Logo    image.Image
	Product image.Image
}

// layoutCursor is the running position of the top-to-bottom flow
type layoutCursor struct {
	Y        float64
	Elements []models.CardElement
}

func (c layoutCursor) add(e models.CardElement) layoutCursor {
	c.Elements = append(c.Elements, e)
	return c
}

// layoutCard computes the full display list for a card without touching any surface
func layoutCard(spec models.CardSpec, company string, m TextMeasurer, assets cardAssets) []models.CardElement {
	cur := layoutCursor{Y: headerTop}
	cur = layoutFrame(cur)
	cur = layoutHeader(cur, company, m, assets.Logo != nil)
	cur = layoutSeparator(cur)
	cur = layoutTray(cur, assets.Product)
	cur = layoutName(cur, spec.Product.Name, m)
	cur = layoutCategory(cur, spec.Product.Category, m)

	price := utils.FormatINR(spec.EffectivePrice())
	limit := cardHeight
	if price != "" {
		limit = priceButtonRect().Y - priceClearance
	}
	cur = layoutDescription(cur, spec.EffectiveDescription(), m, limit)
	cur = layoutPrice(cur, price)
	return cur.Elements
}

func cardRect() models.Rect {
	return models.Rect{X: cardInset, Y: cardInset, W: cardWidth - 2*cardInset, H: cardHeight - 2*cardInset}
}

func layoutFrame(cur layoutCursor) layoutCursor {
	card := cardRect()
	shadow := card
	shadow.Y += shadowOffset
	cur = cur.add(models.CardElement{Kind: models.ElementShadow, Rect: shadow})
	return cur.add(models.CardElement{Kind: models.ElementCard, Rect: card})
}

// layoutHeader places the logo glyph and the bold company name centred against it
func layoutHeader(cur layoutCursor, company string, m TextMeasurer, hasLogo bool) layoutCursor {
	logo := models.Rect{X: contentLeft, Y: cur.Y, W: logoSize, H: logoSize}
	if hasLogo {
		cur = cur.add(models.CardElement{Kind: models.ElementLogo, Rect: logo})
	} else {
		glyph := ""
		if r := []rune(strings.TrimSpace(company)); len(r) > 0 {
			glyph = string(r[0])
		}
		cur = cur.add(models.CardElement{Kind: models.ElementLogoFallback, Rect: logo, Text: glyph})
	}

	if company != "" {
		centerY := logo.Y + logo.H/2
		h := titleStyle.Size * 1.25
		cur = cur.add(models.CardElement{
			Kind: models.ElementTitle,
			Rect: models.Rect{X: titleLeft, Y: centerY - h/2, W: m.Measure(company, titleStyle), H: h},
			Text: company,
		})
	}

	cur.Y = logo.Bottom()
	return cur
}

func layoutSeparator(cur layoutCursor) layoutCursor {
	r := models.Rect{X: contentLeft, Y: cur.Y + separatorGap, W: contentWidth, H: separatorHeight}
	cur = cur.add(models.CardElement{Kind: models.ElementSeparator, Rect: r})
	cur.Y = r.Bottom()
	return cur
}

// layoutTray places the gradient tray and the contain-fitted product image or the
// "No Image" placeholder inside it
func layoutTray(cur layoutCursor, product image.Image) layoutCursor {
	tray := models.Rect{X: trayLeft, Y: cur.Y + trayGap, W: cardWidth - 2*trayLeft, H: trayHeight}
	cur = cur.add(models.CardElement{Kind: models.ElementTray, Rect: tray})

	inner := models.Rect{
		X: tray.X + trayPadding,
		Y: tray.Y + trayPadding,
		W: tray.W - 2*trayPadding,
		H: tray.H - 2*trayPadding,
	}
	if product != nil {
		b := product.Bounds()
		cur = cur.add(models.CardElement{
			Kind: models.ElementProductImage,
			Rect: containFit(float64(b.Dx()), float64(b.Dy()), inner),
		})
	} else {
		cur = cur.add(models.CardElement{Kind: models.ElementNoImage, Rect: inner, Text: noImageText})
	}

	cur.Y = tray.Bottom()
	return cur
}

// containFit scales a w×h image into box keeping its ratio so the whole image is
// visible, centred on both axes
func containFit(w, h float64, box models.Rect) models.Rect {
	if w <= 0 || h <= 0 {
		return box
	}
	scale := math.Min(box.W/w, box.H/h)
	fw, fh := w*scale, h*scale
	return models.Rect{
		X: box.X + (box.W-fw)/2,
		Y: box.Y + (box.H-fh)/2,
		W: fw,
		H: fh,
	}
}

func layoutName(cur layoutCursor, name string, m TextMeasurer) layoutCursor {
	lines := firstLines(wrapText(m, strings.ToUpper(name), nameStyle, contentWidth), nameMaxLines)
	y := cur.Y + nameGap
	for i, line := range lines {
		cur = cur.add(models.CardElement{
			Kind: models.ElementNameLine,
			Rect: models.Rect{X: contentLeft, Y: y + float64(i)*nameLineHeight, W: m.Measure(line, nameStyle), H: nameLineHeight},
			Text: line,
		})
	}
	cur.Y = y + float64(len(lines))*nameLineHeight + nameBottomGap
	return cur
}

// layoutCategory sizes the pill from the measured text plus fixed padding
func layoutCategory(cur layoutCursor, category string, m TextMeasurer) layoutCursor {
	category = strings.TrimSpace(category)
	if category == "" {
		return cur
	}
	w := m.Measure(category, badgeStyle) + 2*badgePaddingX
	cur = cur.add(models.CardElement{
		Kind: models.ElementCategory,
		Rect: models.Rect{X: contentLeft, Y: cur.Y, W: w, H: badgeHeight},
		Text: category,
	})
	cur.Y += badgeAdvance
	return cur
}

// layoutDescription wraps the description to two lines, and fewer when the price
// button would otherwise be overlapped
func layoutDescription(cur layoutCursor, description string, m TextMeasurer, limit float64) layoutCursor {
	if strings.TrimSpace(description) == "" {
		return cur
	}
	maxLines := descMaxLines
	if room := int((limit - cur.Y) / descLineHeight); room < maxLines {
		maxLines = room
	}
	lines := firstLines(wrapText(m, description, descStyle, contentWidth), maxLines)
	for i, line := range lines {
		cur = cur.add(models.CardElement{
			Kind: models.ElementDescription,
			Rect: models.Rect{X: contentLeft, Y: cur.Y + float64(i)*descLineHeight, W: m.Measure(line, descStyle), H: descLineHeight},
			Text: line,
		})
	}
	if len(lines) > 0 {
		cur.Y += float64(len(lines))*descLineHeight + descBottomGap
	}
	return cur
}

func priceButtonRect() models.Rect {
	return models.Rect{X: contentLeft, Y: cardHeight - priceBottomSpace, W: contentWidth, H: priceHeight}
}

// layoutPrice pins the price button to the bottom of the card; the cursor is not advanced
func layoutPrice(cur layoutCursor, label string) layoutCursor {
	if label == "" {
		return cur
	}
	return cur.add(models.CardElement{Kind: models.ElementPriceButton, Rect: priceButtonRect(), Text: label})
}
