package recipes

import (
	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/routes/users"
	"foodgram.io/backend/internal/routes/util"
)

type IngredientAmount struct {
	Id     string `json:"id" validate:"required"`
	Amount int    `json:"amount" validate:"min=1"`
}

// RecipeInput is accepted on create and on update; both replace every field.
type RecipeInput struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique=Id,dive"`
	Tags        []string           `json:"tags" validate:"required,min=1,unique,dive,required"`
	Image       string             `json:"image" validate:"required"`
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"required,min=1"`
}

type Tag struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Ingredient struct {
	Id              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type Recipe struct {
	Id               string       `json:"id"`
	Tags             []Tag        `json:"tags"`
	Author           users.User   `json:"author"`
	Ingredients      []Ingredient `json:"ingredients"`
	IsFavorited      bool         `json:"is_favorited"`
	IsInShoppingCart bool         `json:"is_in_shopping_cart"`
	Name             string       `json:"name"`
	Image            string       `json:"image"`
	Text             string       `json:"text"`
	CookingTime      int          `json:"cooking_time"`
}

type ShortRecipe struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type ShortLink struct {
	ShortLink string `json:"short-link"`
}

func NewShortRecipe(recipe data.RecipeDTO) ShortRecipe {
	return ShortRecipe{
		Id:          recipe.SK,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// viewer carries what a caller needs to render a page of recipes: authors
// and the caller's own favorites, cart and subscriptions.
type viewer struct {
	authors   map[string]data.UserDTO
	favorites map[string]bool
	cart      map[string]bool
	following map[string]bool
}

func (v *viewer) recipe(recipe data.RecipeDTO) Recipe {
	author, ok := v.authors[recipe.Author]
	if !ok {
		author = data.UserDTO{SK: recipe.Author}
	}
	return Recipe{
		Id:               recipe.SK,
		Author:           users.NewUser(author, v.following[recipe.Author]),
		IsFavorited:      v.favorites[recipe.SK],
		IsInShoppingCart: v.cart[recipe.SK],
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		Tags: *util.MapOnList(&recipe.Tags, func(tag data.RecipeTagDTO) Tag {
			return Tag{Id: tag.Id, Name: tag.Name, Slug: tag.Slug}
		}),
		Ingredients: *util.MapOnList(&recipe.Ingredients, func(line data.RecipeIngredientDTO) Ingredient {
			return Ingredient{
				Id:              line.Id,
				Name:            line.Name,
				MeasurementUnit: line.MeasurementUnit,
				Amount:          line.Amount,
			}
		}),
	}
}
