package trust

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/karmatic-mx/trust-engine/internal/domain"
)

// fraudKeywords flag fraud, dishonesty, hidden fees, document fraud,
// vehicle defects, poor service and post-sale abandonment.
// No entry may contain another one, in this table or in trustKeywords.
var fraudKeywords = foldAll([]string{
	// fraud and dishonesty
	"fraude", "estafa", "engaño", "engañaron", "mentira", "mentiroso",
	"robo", "robaron", "ladrón", "ladrones", "deshonesto", "tranza", "abuso",
	// hidden fees
	"cobro oculto", "cargos ocultos", "comisión oculta", "cobros extra",
	"cobraron de más", "letra chiquita", "sobreprecio",
	// documents
	"papeles falsos", "factura falsa", "documentos falsos", "sin factura",
	"auto robado", "kilometraje alterado", "odómetro",
	// vehicle defects
	"auto chocado", "motor dañado", "falla mecánica", "defecto",
	// service
	"pésimo servicio", "mala atención", "groseros", "no responden",
	// after the sale
	"nunca respondieron", "me dejaron colgado", "no cumplieron", "abandonaron",
	"cero garantía", "no respetaron la garantía", "profeco",
})

// trustKeywords flag honesty, transparency, clear pricing, responsiveness
// and professionalism.
var trustKeywords = foldAll([]string{
	"muy honesto", "honestidad", "confiable", "confianza",
	"transparente", "transparencia", "sin sorpresas",
	"excelente servicio", "excelente atención", "muy buena atención", "buen trato",
	"precio justo", "precios claros", "sin letras chiquitas",
	"rápido", "puntual", "atendieron mis dudas", "siempre contestan",
	"profesional", "seriedad", "amables", "atentos",
	"recomiendo", "recomendable", "cumplieron con todo", "garantía respetada",
})

func newFolder() cases.Caser {
	return cases.Lower(language.Spanish)
}

func foldAll(words []string) []string {
	c := newFolder()
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = c.String(w)
	}
	return out
}

// countKeywords counts, over every review, each keyword present in the
// lowercased text. A keyword counts once per review.
func countKeywords(reviews []domain.Review, keywords []string) int {
	// A Caser keeps state between calls, so each count gets its own.
	c := newFolder()

	count := 0
	for _, r := range reviews {
		if r.Text == "" {
			continue
		}
		text := c.String(r.Text)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
	}
	return count
}

// CountFraudKeywords returns the number of fraud keyword mentions.
func CountFraudKeywords(reviews []domain.Review) int {
	return countKeywords(reviews, fraudKeywords)
}

// CountTrustKeywords returns the number of trust keyword mentions.
func CountTrustKeywords(reviews []domain.Review) int {
	return countKeywords(reviews, trustKeywords)
}
