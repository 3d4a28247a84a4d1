// internal/workers/conversation/parse-intent/handler.go
package parseintent

import (
	"strconv"
	"strings"

	"lucy-chat/internal/models"
)

const (
	TaskType = "parse-intent"
)

// Logger interface definition
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Recorder counts classifications.
type Recorder interface {
	RecordIntent(intent string)
}

// Parser classifies free text into an Intent. It performs no I/O and never fails.
type Parser struct {
	config   *Config
	logger   Logger
	recorder Recorder
	rules    []rule
}

func NewParser(config *Config, log Logger, recorder Recorder) *Parser {
	if config == nil {
		config = LoadConfig()
	}
	p := &Parser{
		config:   config,
		recorder: recorder,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
	p.rules = p.buildRules()
	return p
}

// Classify evaluates the rules in priority order and returns the first match,
// falling back to Unknown.
func (p *Parser) Classify(text string, known []models.Recipe) models.Intent {
	intent, ruleName := p.classify(text, known)

	p.logger.Debug("message classified", map[string]interface{}{
		"intent": string(intent.Kind()),
		"rule":   ruleName,
	})
	if p.recorder != nil {
		p.recorder.RecordIntent(string(intent.Kind()))
	}
	return intent
}

func (p *Parser) classify(text string, known []models.Recipe) (models.Intent, string) {
	literalClaimed := false
	for _, r := range p.rules {
		if r.group == groupLiteral && literalClaimed {
			continue
		}
		if !r.claims(text) {
			continue
		}
		if intent, ok := r.build(text, known); ok {
			return intent, r.name
		}
		if r.group == groupLiteral {
			literalClaimed = true
		}
	}
	return models.Unknown{RawText: text}, "fallback"
}

func (p *Parser) buildRules() []rule {
	cfg := p.config
	rules := []rule{
		{
			name:   "match-cart",
			group:  groupLiteral,
			claims: func(text string) bool { return strings.Contains(text, cfg.MatchCartPhrase) },
			build: func(string, []models.Recipe) (models.Intent, bool) {
				return models.MatchCartExactly{}, true
			},
		},
		{
			name:   "closest-recipes",
			group:  groupLiteral,
			claims: func(text string) bool { return strings.Contains(text, cfg.ClosestPhrase) },
			build: func(string, []models.Recipe) (models.Intent, bool) {
				return models.FewestAdditional{}, true
			},
		},
		{
			name:   "search",
			group:  groupLiteral,
			claims: func(text string) bool { return strings.HasPrefix(text, cfg.SearchPrefix) },
			build:  buildSearch,
		},
		{
			name:   "add-ingredients",
			group:  groupLiteral,
			claims: func(text string) bool { return strings.HasPrefix(text, cfg.AddIngredientsPrefix) },
			build: func(text string, known []models.Recipe) (models.Intent, bool) {
				return p.buildAddIngredients(text, known)
			},
		},
		{
			name:  "clear-cart",
			group: groupLiteral,
			claims: func(text string) bool {
				for _, phrase := range cfg.ClearPhrases {
					if strings.Contains(text, phrase) {
						return true
					}
				}
				return false
			},
			build: func(string, []models.Recipe) (models.Intent, bool) {
				return models.ClearCart{}, true
			},
		},
	}

	for _, tpl := range quantityTemplates {
		tpl := tpl
		rules = append(rules, rule{
			name:   "quantity-" + string(tpl.direction),
			group:  groupTemplate,
			claims: tpl.pattern.MatchString,
			build: func(text string, _ []models.Recipe) (models.Intent, bool) {
				m := tpl.pattern.FindStringSubmatch(text)
				amount, err := strconv.Atoi(m[2])
				if err != nil {
					return nil, false
				}
				return models.AdjustQuantity{
					ItemName:  m[1],
					Direction: tpl.direction,
					Amount:    amount,
				}, true
			},
		})
	}
	return rules
}

// buildSearch takes the third whitespace token as the category. The second
// token is accepted and ignored.
func buildSearch(text string, _ []models.Recipe) (models.Intent, bool) {
	parts := strings.Fields(text)
	category := ""
	if len(parts) > 2 {
		category = parts[2]
	}
	return models.Search{Category: category}, true
}

func (p *Parser) buildAddIngredients(text string, known []models.Recipe) (models.Intent, bool) {
	name := strings.Replace(text, p.config.AddIngredientsPrefix+" ", "", 1)
	for _, r := range known {
		if strings.EqualFold(r.Name, name) {
			return models.AddIngredients{RecipeName: r.Name, Recipe: r}, true
		}
	}
	p.logger.Info("recipe not found for add ingredients", map[string]interface{}{
		"recipeName": name,
		"known":      len(known),
	})
	return nil, false
}
