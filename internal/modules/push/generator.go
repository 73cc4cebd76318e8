// Package push renders the human-readable notification for a winning offer.
// Template selection prefers call-to-action wording and degrades through a
// fallback chain instead of ever emitting unresolved placeholders.
package push

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aselbek/recommender/internal/config"
)

// ctaVerbs is the fixed call-to-action vocabulary; templates containing one
// of these are preferred.
var ctaVerbs = []string{
	"Открыть", "Оформить", "Настроить", "Узнать",
	"Подключить", "Посмотреть", "Попробовать",
}

// genericFallback is the last-resort sentence when no template can be
// rendered at all.
const genericFallback = "Здравствуйте, %s. У нас есть предложение для вас."

// Generator renders push texts. The random source is injected so tests can
// fix the shuffle order; it is not safe for concurrent use, and the pipeline
// renders winners sequentially.
type Generator struct {
	templates config.Templates
	rng       *rand.Rand
	log       zerolog.Logger
}

// New creates a generator with a seeded random source
func New(templates config.Templates, seed int64, log zerolog.Logger) *Generator {
	return &Generator{
		templates: templates,
		rng:       rand.New(rand.NewSource(seed)),
		log:       log.With().Str("module", "push").Logger(),
	}
}

// Render produces the notification for one winning offer. The extra values
// (top categories, travel month, FX currency) are optional and only consumed
// by templates that reference them.
func (g *Generator) Render(clientName, productName string, benefit float64, extra map[string]string) string {
	firstName := firstName(clientName)

	values := map[string]string{
		"first_name":    firstName,
		"benefit_value": FormatCurrency(benefit),
	}
	for k, v := range extra {
		values[k] = v
	}

	templates := g.templates[productName]
	if len(templates) == 0 {
		templates = g.templates[config.GenericTemplateKey]
	}
	if len(templates) == 0 {
		return fmt.Sprintf(genericFallback, firstName)
	}

	shuffled := make([]string, len(templates))
	copy(shuffled, templates)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	candidates := withCTA(shuffled)
	if len(candidates) == 0 {
		candidates = shuffled
	}

	for _, tpl := range candidates {
		if text, err := formatTemplate(tpl, values); err == nil {
			return text
		}
	}

	// Every candidate had an unresolved placeholder; try the first generic
	// template before giving up entirely.
	if generic := g.templates[config.GenericTemplateKey]; len(generic) > 0 {
		if text, err := formatTemplate(generic[0], values); err == nil {
			return text
		}
	}

	g.log.Warn().
		Str("product", productName).
		Msg("No template could be rendered, using hard-coded fallback")
	return fmt.Sprintf(genericFallback, firstName)
}

// withCTA filters templates containing a call-to-action verb
func withCTA(templates []string) []string {
	var out []string
	for _, tpl := range templates {
		lower := strings.ToLower(tpl)
		for _, verb := range ctaVerbs {
			if strings.Contains(lower, strings.ToLower(verb)) {
				out = append(out, tpl)
				break
			}
		}
	}
	return out
}

// formatTemplate substitutes {name} placeholders from values, failing when
// any referenced placeholder has no value.
func formatTemplate(tpl string, values map[string]string) (string, error) {
	var b strings.Builder
	rest := tpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}

		name := rest[open+1 : open+closing]
		value, ok := values[name]
		if !ok || value == "" {
			return "", fmt.Errorf("no value for placeholder %q", name)
		}

		b.WriteString(rest[:open])
		b.WriteString(value)
		rest = rest[open+closing+1:]
	}
}

func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return fullName
	}
	return fields[0]
}
