// internal/workers/conversation/parse-intent/models.go
package parseintent

import (
	"regexp"

	"lucy-chat/internal/models"
)

type ruleGroup int

const (
	// groupLiteral rules form an exclusive chain: once one of them claims the
	// text, the remaining literal rules are skipped even if it yields nothing.
	groupLiteral ruleGroup = iota
	groupTemplate
)

// rule is one (predicate, constructor) pair. claims reports whether the rule
// owns the text; build produces the intent and may still decline.
type rule struct {
	name   string
	group  ruleGroup
	claims func(text string) bool
	build  func(text string, known []models.Recipe) (models.Intent, bool)
}

type quantityTemplate struct {
	direction models.Direction
	pattern   *regexp.Regexp
}

var quantityTemplates = []quantityTemplate{
	{models.DirectionIncrease, regexp.MustCompile(`increase the quantity of '([^']*)' by (\d+)`)},
	{models.DirectionDecrease, regexp.MustCompile(`decrease the quantity of '([^']*)' by (\d+)`)},
	{models.DirectionAdd, regexp.MustCompile(`add the quantity of '([^']*)' by (\d+)`)},
	{models.DirectionSubtract, regexp.MustCompile(`subtract the quantity of '([^']*)' by (\d+)`)},
}
