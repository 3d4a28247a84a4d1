// internal/models/intent.go
package models

import "fmt"

type IntentKind string

const (
	IntentMatchCartExactly IntentKind = "match_cart_exactly"
	IntentFewestAdditional IntentKind = "fewest_additional"
	IntentSearch           IntentKind = "search"
	IntentAddIngredients   IntentKind = "add_ingredients"
	IntentClearCart        IntentKind = "clear_cart"
	IntentAdjustQuantity   IntentKind = "adjust_quantity"
	IntentUnknown          IntentKind = "unknown"
)

// Intent is the structured command derived from free text. The set of
// implementations is closed to this package.
type Intent interface {
	Kind() IntentKind
	isIntent()
}

// MatchCartExactly asks for recipes whose ingredients are all in the cart.
type MatchCartExactly struct{}

// FewestAdditional asks for recipes needing the fewest ingredients not in the cart.
type FewestAdditional struct{}

// Search asks for recipes matching a free-text, tag or meal-type lookup.
type Search struct {
	Category string `json:"category"`
}

// AddIngredients adds every ingredient of a known recipe to the cart.
type AddIngredients struct {
	RecipeName string `json:"recipeName"`
	Recipe     Recipe `json:"recipe"`
}

type ClearCart struct{}

// AdjustQuantity changes one cart line's quantity. Amount is not validated here.
type AdjustQuantity struct {
	ItemName  string    `json:"itemName"`
	Direction Direction `json:"direction"`
	Amount    int       `json:"amount"`
}

// Unknown is the fallback when no rule matched.
type Unknown struct {
	RawText string `json:"rawText"`
}

func (MatchCartExactly) Kind() IntentKind { return IntentMatchCartExactly }
func (FewestAdditional) Kind() IntentKind { return IntentFewestAdditional }
func (Search) Kind() IntentKind           { return IntentSearch }
func (AddIngredients) Kind() IntentKind   { return IntentAddIngredients }
func (ClearCart) Kind() IntentKind        { return IntentClearCart }
func (AdjustQuantity) Kind() IntentKind   { return IntentAdjustQuantity }
func (Unknown) Kind() IntentKind          { return IntentUnknown }

func (MatchCartExactly) isIntent() {}
func (FewestAdditional) isIntent() {}
func (Search) isIntent()           {}
func (AddIngredients) isIntent()   {}
func (ClearCart) isIntent()        {}
func (AdjustQuantity) isIntent()   {}
func (Unknown) isIntent()          {}

// Direction of an AdjustQuantity intent
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionAdd      Direction = "add"
	DirectionSubtract Direction = "subtract"
)

// Delta returns the signed quantity change for amount.
func (d Direction) Delta(amount int) int {
	switch d {
	case DirectionDecrease, DirectionSubtract:
		return -amount
	default:
		return amount
	}
}

// PastTense renders the direction for instruction text ("increased", "added").
func (d Direction) PastTense() string {
	switch d {
	case DirectionIncrease:
		return "increased"
	case DirectionDecrease:
		return "decreased"
	case DirectionAdd:
		return "added"
	case DirectionSubtract:
		return "subtracted"
	default:
		return fmt.Sprintf("%sed", string(d))
	}
}
