package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hitech-quotation-tool/models"
)

func TestPaginateCards(t *testing.T) {
	cards := make([]sheetCard, 20)
	pages := paginateCards(cards)
	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 9)
	assert.Len(t, pages[1], 9)
	assert.Len(t, pages[2], 2)

	assert.Empty(t, paginateCards(nil))
}

func TestCardSheetRenderHTML(t *testing.T) {
	svc := NewCardSheetService(nil, "")
	cards := make([]*models.RenderedCard, 10)
	for i := range cards {
		cards[i] = &models.RenderedCard{FileName: "card.png", PNG: []byte{0x89, 'P', 'N', 'G'}}
	}
	cards = append(cards, nil, &models.RenderedCard{FileName: "empty.png"})

	html, err := svc.RenderHTML("Valves <2024>", cards)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(html, `class="page"`))
	assert.Equal(t, 10, strings.Count(html, "data:image/png;base64,"))
	assert.Contains(t, html, "Valves &lt;2024&gt;")
	assert.Contains(t, html, "2 / 2")
	assert.NotContains(t, html, "empty.png")
}

func TestCardSheetRenderSheet(t *testing.T) {
	renderer := NewCardRenderer(staticLoader{}, nil, "", testCompany, 1)
	svc := NewCardSheetService(renderer, "")

	html, err := svc.RenderSheet(context.Background(), models.CardSheetRequest{
		Title: "Valves",
		Cards: []models.CardSpec{models.NewCardSpec(models.Product{Name: "TEE"}, "10", "")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(html, "data:image/png;base64,"))

	_, err = svc.RenderSheet(context.Background(), models.CardSheetRequest{})
	var validationErr *models.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}
