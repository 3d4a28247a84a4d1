package models

import "strings"

// Recipe is an immutable snapshot returned by the recipe source.
type Recipe struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Ingredients        []string `json:"ingredients"`
	Instructions       []string `json:"instructions"`
	PrepTimeMinutes    int      `json:"prepTimeMinutes"`
	CookTimeMinutes    int      `json:"cookTimeMinutes"`
	Servings           int      `json:"servings"`
	Difficulty         string   `json:"difficulty,omitempty"`
	Cuisine            string   `json:"cuisine,omitempty"`
	CaloriesPerServing int      `json:"caloriesPerServing,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Image              string   `json:"image"`
	Rating             float64  `json:"rating"`
	MealType           []string `json:"mealType,omitempty"`
}

// TotalTimeMinutes returns prep plus cook time
func (r Recipe) TotalTimeMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}

// MissingIngredients returns the ingredients not present in have, in recipe order.
// Matching is exact, the same way cart titles are compared against ingredient strings.
func (r Recipe) MissingIngredients(have map[string]struct{}) []string {
	var missing []string
	for _, ing := range r.Ingredients {
		if _, ok := have[ing]; !ok {
			missing = append(missing, ing)
		}
	}
	return missing
}

// RecipeNames joins recipe names with ", ".
func RecipeNames(recipes []Recipe) string {
	names := make([]string, len(recipes))
	for i, r := range recipes {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}

// RecipeList is the envelope used by the recipe HTTP API.
type RecipeList struct {
	Recipes []Recipe `json:"recipes"`
	Total   int      `json:"total"`
	Skip    int      `json:"skip"`
	Limit   int      `json:"limit"`
}
