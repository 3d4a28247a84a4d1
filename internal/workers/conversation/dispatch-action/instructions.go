// internal/workers/conversation/dispatch-action/instructions.go
package dispatchaction

import (
	"fmt"

	"lucy-chat/internal/models"
)

const (
	reportTail   = " The backend algorithm returned these potential recipes. Report them so that the user can decide one they like. Pretend that you are the one who performed the task. Backend result:"
	successTail  = " The backend has sucessfully done this. Let the user know. Pretend that you are the one who performed the task."
	unknownReply = "The parser did not understand what the user was attempting to say. Inform the user. Pretend that you are the one who did not understand."
)

func (h *Handler) recipeList(recipes []models.Recipe) string {
	if len(recipes) == 0 {
		return h.config.EmptyResultMarker
	}
	return models.RecipeNames(recipes)
}

func (h *Handler) matchCartInstruction(recipes []models.Recipe) string {
	return "The user requested recipes that can be made with exactly the items in their cart." + reportTail + h.recipeList(recipes)
}

func (h *Handler) fewestAdditionalInstruction(recipes []models.Recipe) string {
	return "The user requested the closest recipes that can be made with the items in their cart." + reportTail + h.recipeList(recipes)
}

func (h *Handler) searchInstruction(category string, recipes []models.Recipe) string {
	return "The user requested recipes that match the search for " + category + "." + reportTail + h.recipeList(recipes)
}

func addIngredientsInstruction(recipeName string) string {
	return "The user chose the recipe " + recipeName + " and added all its ingredients to their cart." + successTail
}

func clearCartInstruction() string {
	return "The user has removed all items from their cart." + successTail
}

func adjustQuantityInstruction(in models.AdjustQuantity) string {
	return fmt.Sprintf("The quantity of %s has been %s by %d.", in.ItemName, in.Direction.PastTense(), in.Amount) + successTail
}
