package copywriter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matheuslarroque/pesquisador-junior/internal/scraper"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestExtractCTA(t *testing.T) {
	content := "TÍTULO - FONE BLUETOOTH\n\nCTA BOTÃO STORY - “Quero o meu!” ou “Ver agora”\n\nLEGENDA POST - texto"
	assert.Equal(t, "“Quero o meu!” ou “Ver agora”", ExtractCTA(content))
}

func TestExtractCTACaseInsensitive(t *testing.T) {
	content := "cta botão story -  Garanta o seu  \nresto"
	assert.Equal(t, "Garanta o seu", ExtractCTA(content))
}

func TestExtractCTAMissing(t *testing.T) {
	assert.Equal(t, "", ExtractCTA("LEGENDA POST - sem chamada de story"))
}

func TestBuildUserPromptWithAllFields(t *testing.T) {
	p := scraper.ProductRecord{
		Title:   "Fone Bluetooth Sem Fio",
		URL:     "https://shopee.com.br/product/1/2",
		Price:   "R$ 49,90",
		Sold:    intPtr(1200),
		Rating:  floatPtr(4.8),
		Reviews: intPtr(300),
	}

	prompt := buildUserPrompt(p)

	assert.Contains(t, prompt, "- Produto: Fone Bluetooth Sem Fio")
	assert.Contains(t, prompt, "- Preço: R$ 49,90")
	assert.Contains(t, prompt, "- Vendidos: 1200 vendidos")
	assert.Contains(t, prompt, "- Avaliação: 4.8")
	assert.Contains(t, prompt, "- Avaliações (qtd): 300")
	assert.Contains(t, prompt, "- Link: https://shopee.com.br/product/1/2")
}

func TestBuildUserPromptWithAbsentMetrics(t *testing.T) {
	p := scraper.ProductRecord{
		Title: "Caneca Térmica Inox",
		URL:   "https://shopee.com.br/product/3/4",
		Price: scraper.PriceUnknown,
	}

	prompt := buildUserPrompt(p)

	assert.Contains(t, prompt, "- Vendidos: muitos vendidos")
	assert.Contains(t, prompt, "- Avaliação: alta")
	assert.Contains(t, prompt, "- Avaliações (qtd): \n")
	assert.NotContains(t, prompt, "nil")
}

func TestTemplateGenerator(t *testing.T) {
	g := NewTemplateGenerator()

	p := scraper.ProductRecord{
		Title:  "Luminária Led de Mesa",
		URL:    "https://shopee.com.br/product/5/6",
		Price:  "R$ 39,90",
		Sold:   intPtr(500),
		Rating: floatPtr(4.9),
	}

	content, err := g.Generate(context.Background(), p)
	require.NoError(t, err)

	assert.Contains(t, content, "TÍTULO - LUMINÁRIA LED DE MESA")
	assert.Contains(t, content, "💰 R$ 39,90")
	assert.Contains(t, content, "⭐ 4.9 com 500 vendidos")
	assert.Contains(t, content, "📲 Link nos stories ou no grupo do WhatsApp!")
	assert.NotEqual(t, "", ExtractCTA(content))
}

func TestTemplateGeneratorOmitsAbsentMetrics(t *testing.T) {
	g := NewTemplateGenerator()

	p := scraper.ProductRecord{
		Title: "Organizador de Gavetas",
		URL:   "https://shopee.com.br/product/7/8",
		Price: scraper.PriceUnknown,
	}

	content, err := g.Generate(context.Background(), p)
	require.NoError(t, err)

	assert.NotContains(t, content, "⭐")
	assert.NotContains(t, content, "vendidos")
	assert.True(t, strings.Contains(content, scraper.PriceUnknown))
}
