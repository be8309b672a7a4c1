package copywriter

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Matheuslarroque/pesquisador-junior/internal/scraper"
	"github.com/Matheuslarroque/pesquisador-junior/logger"
	pkgerrors "github.com/Matheuslarroque/pesquisador-junior/pkg/errors"
)

// Generator produces PT-BR marketing copy for a selected product
type Generator interface {
	Generate(ctx context.Context, product scraper.ProductRecord) (string, error)
}

var ctaPattern = regexp.MustCompile(`(?i)CTA BOTÃO STORY\s*-\s*([^\n]+)`)

// ExtractCTA pulls the story button line out of generated copy.
// Returns an empty string when the copy has no CTA line.
func ExtractCTA(content string) string {
	m := ctaPattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

const systemPrompt = "Você é um redator especialista em conteúdo de achadinhos da Shopee. " +
	"Você NÃO inventa números. Se algum dado não existir, você omite ou fala de forma neutra."

// buildUserPrompt renders the product facts into the copy request.
// Absent metrics are phrased neutrally so the model never invents numbers.
func buildUserPrompt(p scraper.ProductRecord) string {
	soldStr := "muitos vendidos"
	if p.Sold != nil {
		soldStr = fmt.Sprintf("%d vendidos", *p.Sold)
	}

	ratingStr := "alta"
	if p.Rating != nil {
		ratingStr = fmt.Sprintf("%.1f", *p.Rating)
	}

	reviewsStr := ""
	if p.Reviews != nil {
		reviewsStr = fmt.Sprintf("%d", *p.Reviews)
	}

	return strings.TrimSpace(fmt.Sprintf(`
Crie conteúdo em PT-BR, no formato exato abaixo, para UM produto.

DADOS REAIS:
- Produto: %s
- Preço: %s
- Vendidos: %s
- Avaliação: %s
- Avaliações (qtd): %s
- Link: %s

FORMATO (obrigatório):

TÍTULO - <título em CAIXA ALTA e curto>

CTA BOTÃO STORY - “<CTA 1>” ou “<CTA 2>”

LEGENDA POST - <texto completo no estilo achadinho, com:
- 1 frase de abertura contextual
- 1 parágrafo curto explicando uso
- lista "✨ Destaques do produto:" com 5 a 7 bullets com emojis
- linha do preço (💰)
- linha de avaliação (⭐) incluindo vendidos quando disponível
- 1 linha de frete/cupom SOMENTE se houver dado (se não houver, não invente)
- fechamento humano + "📲 Link nos stories ou no grupo do WhatsApp!">

REGRAS:
- Não use palavras tipo "imperdível" sem contexto.
- Não invente frete grátis/cupom/oferta relâmpago se não houver dado.
- Seja direto, prático e vendedor sem exagero.
`, p.Title, p.Price, soldStr, ratingStr, reviewsStr, p.URL))
}

// TemplateGenerator renders copy from a fixed template without calling any
// external service. Used when no API key is configured.
type TemplateGenerator struct {
	log *logger.Logger
}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{log: logger.ForCopywriter()}
}

// Generate builds deterministic copy using only the fields present on the
// product. Absent metrics are omitted rather than guessed.
func (g *TemplateGenerator) Generate(_ context.Context, p scraper.ProductRecord) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "TÍTULO - %s\n\n", strings.ToUpper(p.Title))
	b.WriteString("CTA BOTÃO STORY - “Quero o meu!” ou “Ver na Shopee”\n\n")
	fmt.Fprintf(&b, "LEGENDA POST - Achadinho do dia: %s.\n\n", p.Title)
	fmt.Fprintf(&b, "💰 %s\n", p.Price)

	switch {
	case p.Rating != nil && p.Sold != nil:
		fmt.Fprintf(&b, "⭐ %.1f com %d vendidos\n", *p.Rating, *p.Sold)
	case p.Rating != nil:
		fmt.Fprintf(&b, "⭐ %.1f\n", *p.Rating)
	case p.Sold != nil:
		fmt.Fprintf(&b, "🔥 %d vendidos\n", *p.Sold)
	}

	b.WriteString("\n📲 Link nos stories ou no grupo do WhatsApp!")

	g.log.WithField("title", p.Title).Debug().Msg("Generated template copy")
	return b.String(), nil
}

// wrapGenerateError normalizes copy generation failures into the pipeline
// error taxonomy.
func wrapGenerateError(p scraper.ProductRecord, err error) error {
	return pkgerrors.NewNetwork("copywriter",
		fmt.Sprintf("generate copy for %q", p.Title), err)
}
