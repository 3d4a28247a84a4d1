// internal/workers/conversation/dispatch-action/handler.go
package dispatchaction

import (
	"context"
	"errors"
	"fmt"
	"math"

	"lucy-chat/internal/models"
)

const (
	TaskType = "dispatch-action"
)

var (
	ErrActionFailed      = errors.New("ACTION_DISPATCH_FAILED")
	ErrUnsupportedIntent = errors.New("UNSUPPORTED_INTENT")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Recorder counts dispatched actions.
type Recorder interface {
	RecordDispatch(intent, result string)
}

// Handler is the only caller of recipe queries and cart mutations.
type Handler struct {
	config   *Config
	recipes  RecipeQueryService
	cart     CartGateway
	catalog  ProductCatalog
	logger   Logger
	recorder Recorder
}

func NewHandler(config *Config, recipes RecipeQueryService, cart CartGateway, catalog ProductCatalog, log Logger, recorder Recorder) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config:   config,
		recipes:  recipes,
		cart:     cart,
		catalog:  catalog,
		recorder: recorder,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Dispatch executes intent against the collaborators using cart as the
// snapshot of current lines. Collaborator failures are returned; resolution
// misses are only logged.
func (h *Handler) Dispatch(ctx context.Context, intent models.Intent, cart []models.CartLine) (*models.ActionOutcome, error) {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	outcome, err := h.execute(ctx, intent, cart)
	if err != nil {
		h.logger.Error("action failed", map[string]interface{}{
			"intent": string(intent.Kind()),
			"error":  err.Error(),
		})
		return nil, err
	}

	h.logger.Info("action dispatched", map[string]interface{}{
		"intent": string(intent.Kind()),
		"result": string(outcome.Result.Kind()),
	})
	if h.recorder != nil {
		h.recorder.RecordDispatch(string(intent.Kind()), string(outcome.Result.Kind()))
	}
	return outcome, nil
}

func (h *Handler) execute(ctx context.Context, intent models.Intent, cart []models.CartLine) (*models.ActionOutcome, error) {
	switch in := intent.(type) {
	case models.MatchCartExactly:
		recipes, err := h.recipes.ByTitles(ctx, models.CartTitles(cart))
		if err != nil {
			return nil, wrap("match cart", err)
		}
		return recipeOutcome(recipes, h.matchCartInstruction(recipes)), nil

	case models.FewestAdditional:
		recipes, err := h.fewestAdditional(ctx, cart)
		if err != nil {
			return nil, wrap("fewest additional", err)
		}
		return recipeOutcome(recipes, h.fewestAdditionalInstruction(recipes)), nil

	case models.Search:
		recipes, err := h.recipes.SearchAll(ctx, in.Category)
		if err != nil {
			return nil, wrap("search", err)
		}
		return recipeOutcome(recipes, h.searchInstruction(in.Category, recipes)), nil

	case models.AddIngredients:
		added, err := h.addIngredients(ctx, in.Recipe)
		if err != nil {
			return nil, wrap("add ingredients", err)
		}
		return &models.ActionOutcome{
			Result:      models.CartAck{Action: ActionAddIngredients, Affected: added},
			Instruction: addIngredientsInstruction(in.Recipe.Name),
		}, nil

	case models.ClearCart:
		for _, line := range cart {
			if err := h.cart.Remove(ctx, line.ProductID); err != nil {
				return nil, wrap("clear cart", err)
			}
		}
		return &models.ActionOutcome{
			Result:      models.CartAck{Action: ActionClearCart, Affected: len(cart)},
			Instruction: clearCartInstruction(),
		}, nil

	case models.AdjustQuantity:
		affected, err := h.adjustQuantity(ctx, in, cart)
		if err != nil {
			return nil, wrap("adjust quantity", err)
		}
		return &models.ActionOutcome{
			Result:      models.CartAck{Action: ActionAdjustQuantity, Affected: affected},
			Instruction: adjustQuantityInstruction(in),
		}, nil

	case models.Unknown:
		return &models.ActionOutcome{
			Result:      models.EmptyResult{},
			Instruction: unknownReply,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedIntent, intent)
	}
}

// fewestAdditional keeps every recipe whose count of ingredients missing from
// the cart equals the global minimum.
func (h *Handler) fewestAdditional(ctx context.Context, cart []models.CartLine) ([]models.Recipe, error) {
	all, err := h.recipes.All(ctx)
	if err != nil {
		return nil, err
	}

	have := make(map[string]struct{}, len(cart))
	for _, title := range models.CartTitles(cart) {
		have[title] = struct{}{}
	}

	best := -1
	result := []models.Recipe{}
	for _, r := range all {
		missing := len(r.MissingIngredients(have))
		switch {
		case best == -1 || missing < best:
			best = missing
			result = append(result[:0], r)
		case missing == best:
			result = append(result, r)
		}
	}
	return result, nil
}

// addIngredients adds each ingredient that resolves to a catalog product.
// Unmatched ingredients are skipped.
func (h *Handler) addIngredients(ctx context.Context, recipe models.Recipe) (int, error) {
	added := 0
	var skipped []string
	for _, ingredient := range recipe.Ingredients {
		product, ok, err := h.catalog.FindByTitle(ctx, ingredient)
		if err != nil {
			return added, err
		}
		if !ok {
			skipped = append(skipped, ingredient)
			continue
		}
		if err := h.cart.Add(ctx, product); err != nil {
			return added, err
		}
		added++
	}

	if len(skipped) > 0 {
		h.logger.Info("ingredients without catalog match skipped", map[string]interface{}{
			"recipe":  recipe.Name,
			"skipped": skipped,
		})
	}
	return added, nil
}

func (h *Handler) adjustQuantity(ctx context.Context, in models.AdjustQuantity, cart []models.CartLine) (int, error) {
	line, ok := models.FindCartLine(cart, in.ItemName)
	if !ok {
		h.logger.Warn("item not found in cart", map[string]interface{}{
			"itemName": in.ItemName,
		})
		return 0, nil
	}
	if err := h.cart.UpdateQuantity(ctx, line.ProductID, addQuantity(line.Quantity, in.Direction.Delta(in.Amount))); err != nil {
		return 0, err
	}
	return 1, nil
}

// addQuantity adds delta to quantity, saturating at the int bounds.
func addQuantity(quantity, delta int) int {
	switch {
	case delta > 0 && quantity > math.MaxInt-delta:
		return math.MaxInt
	case delta < 0 && quantity < math.MinInt-delta:
		return math.MinInt
	}
	return quantity + delta
}

func recipeOutcome(recipes []models.Recipe, instruction string) *models.ActionOutcome {
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return &models.ActionOutcome{
		Result:      models.RecipeResult{Recipes: recipes},
		Instruction: instruction,
	}
}

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrActionFailed, op, err)
}
