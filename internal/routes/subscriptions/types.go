package subscriptions

import (
	"foodgram.io/backend/internal/routes/recipes"
	"foodgram.io/backend/internal/routes/users"
)

// Author is a followed user together with a preview of their recipes.
type Author struct {
	users.User
	Recipes      []recipes.ShortRecipe `json:"recipes"`
	RecipesCount int                   `json:"recipes_count"`
}
