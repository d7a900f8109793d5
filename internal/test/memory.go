package test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/ingredients"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/shortcode"
	"github.com/google/uuid"
)

// MemoryRepository is an in process data.Repository for handler tests. Items
// live in partitions keyed like the table: "<account>:<Name>".
type MemoryRepository[T interface{}, I interface{}] struct {
	mu         sync.Mutex
	Name       string
	Descending bool
	Items      map[string]map[string]T
	GetSK      func(T) string
	GetIndex   func(T) string
	OnCreate   func(I, time.Time, string, string) T
	OnUpdate   func(T, I) T
	OnConflict func(itemId string) error
	OnMissing  func(itemId string) error
}

func (mr *MemoryRepository[T, I]) partition(accountId string) string {
	return accountId + ":" + mr.Name
}

func (mr *MemoryRepository[T, I]) page(items []T, params data.QueryParams) data.QueryResults[T] {
	sort.Slice(items, func(i, j int) bool {
		if mr.Descending {
			return mr.GetSK(items[i]) > mr.GetSK(items[j])
		}
		return mr.GetSK(items[i]) < mr.GetSK(items[j])
	})
	start := 0
	if len(params.NextToken) > 0 {
		after := string(params.NextToken)
		for start < len(items) && mr.GetSK(items[start]) != after {
			start++
		}
		start++
	}
	if start > len(items) {
		start = len(items)
	}
	end := min(start+int(*params.GetLimit()), len(items))
	results := data.QueryResults[T]{Items: append([]T{}, items[start:end]...)}
	if end < len(items) {
		results.NextToken = []byte(mr.GetSK(items[end-1]))
	}
	return results
}

func (mr *MemoryRepository[T, I]) List(ctx context.Context, accountId string, params data.QueryParams) (data.QueryResults[T], error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	var items []T
	for _, item := range mr.Items[mr.partition(accountId)] {
		items = append(items, item)
	}
	return mr.page(items, params), nil
}

func (mr *MemoryRepository[T, I]) ListByIndex(ctx context.Context, indexName string, indexKey string, params data.QueryParams) (data.QueryResults[T], error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	var items []T
	for _, partition := range mr.Items {
		for _, item := range partition {
			if mr.GetIndex != nil && mr.GetIndex(item) == indexKey {
				items = append(items, item)
			}
		}
	}
	return mr.page(items, params), nil
}

func (mr *MemoryRepository[T, I]) Get(ctx context.Context, accountId string, itemId string) (T, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	item, ok := mr.Items[mr.partition(accountId)][itemId]
	if !ok {
		return item, exceptions.NotFound(strings.ToLower(mr.Name), itemId)
	}
	return item, nil
}

func (mr *MemoryRepository[T, I]) BatchGet(ctx context.Context, accountId string, itemIds []string) ([]T, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	var items []T
	seen := make(map[string]bool, len(itemIds))
	for _, itemId := range itemIds {
		if seen[itemId] {
			continue
		}
		seen[itemId] = true
		if item, ok := mr.Items[mr.partition(accountId)][itemId]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (mr *MemoryRepository[T, I]) Create(ctx context.Context, accountId string, input I) (T, error) {
	id, err := uuid.NewV7()
	if err != nil {
		var empty T
		return empty, err
	}
	return mr.CreateWithItemId(ctx, accountId, input, id.String())
}

func (mr *MemoryRepository[T, I]) CreateWithItemId(ctx context.Context, accountId string, input I, itemId string) (T, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	pk := mr.partition(accountId)
	item := mr.OnCreate(input, time.Now(), pk, itemId)
	if _, ok := mr.Items[pk][itemId]; ok {
		if mr.OnConflict != nil {
			return item, mr.OnConflict(itemId)
		}
		return item, exceptions.Conflict(strings.ToLower(mr.Name), itemId)
	}
	if mr.Items == nil {
		mr.Items = make(map[string]map[string]T)
	}
	if mr.Items[pk] == nil {
		mr.Items[pk] = make(map[string]T)
	}
	mr.Items[pk][itemId] = item
	return item, nil
}

func (mr *MemoryRepository[T, I]) missing(itemId string) error {
	if mr.OnMissing != nil {
		return mr.OnMissing(itemId)
	}
	return exceptions.NotFound(strings.ToLower(mr.Name), itemId)
}

func (mr *MemoryRepository[T, I]) Update(ctx context.Context, accountId string, itemId string, input I) (T, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	pk := mr.partition(accountId)
	item, ok := mr.Items[pk][itemId]
	if !ok {
		return item, mr.missing(itemId)
	}
	if mr.OnUpdate != nil {
		item = mr.OnUpdate(item, input)
	}
	mr.Items[pk][itemId] = item
	return item, nil
}

func (mr *MemoryRepository[T, I]) Delete(ctx context.Context, accountId string, itemId string) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	pk := mr.partition(accountId)
	if _, ok := mr.Items[pk][itemId]; !ok {
		return mr.missing(itemId)
	}
	delete(mr.Items[pk], itemId)
	return nil
}

func NewMemoryTags() *MemoryRepository[data.TagDTO, data.TagInputDTO] {
	return &MemoryRepository[data.TagDTO, data.TagInputDTO]{
		Name:  "Tag",
		GetSK: func(td data.TagDTO) string { return td.SK },
		OnCreate: func(tid data.TagInputDTO, t time.Time, pk, sk string) data.TagDTO {
			return data.TagDTO{PK: pk, SK: sk, Name: *tid.Name, Slug: *tid.Slug, CreateTime: t, UpdateTime: t}
		},
	}
}

func NewMemoryApiTokens() *MemoryRepository[data.ApiTokenDTO, data.ApiTokenInputDTO] {
	return &MemoryRepository[data.ApiTokenDTO, data.ApiTokenInputDTO]{
		Name:     "ApiToken",
		GetSK:    func(atd data.ApiTokenDTO) string { return atd.SK },
		GetIndex: func(atd data.ApiTokenDTO) string { return atd.FirstIndex },
		OnCreate: func(atid data.ApiTokenInputDTO, t time.Time, pk, sk string) data.ApiTokenDTO {
			return data.ApiTokenDTO{
				PK:         pk,
				SK:         sk,
				FirstIndex: *atid.AccountId + ":ApiToken",
				AccountId:  *atid.AccountId,
				CreateTime: t,
				UpdateTime: t,
			}
		},
	}
}

func NewMemorySubscriptions() *MemoryRepository[data.SubscriptionDTO, data.SubscriptionInputDTO] {
	return &MemoryRepository[data.SubscriptionDTO, data.SubscriptionInputDTO]{
		Name:     "Subscription",
		GetSK:    func(sd data.SubscriptionDTO) string { return sd.SK },
		GetIndex: func(sd data.SubscriptionDTO) string { return sd.FirstIndex },
		OnCreate: func(sid data.SubscriptionInputDTO, t time.Time, pk, sk string) data.SubscriptionDTO {
			return data.SubscriptionDTO{
				PK:            pk,
				SK:            sk,
				FirstIndex:    sk + ":Follower",
				AccountId:     *sid.AccountId,
				SubscriberArn: sid.SubscriberArn,
				CreateTime:    t,
				UpdateTime:    t,
			}
		},
		OnUpdate: func(sd data.SubscriptionDTO, sid data.SubscriptionInputDTO) data.SubscriptionDTO {
			if sid.SubscriberArn != nil {
				sd.SubscriberArn = sid.SubscriberArn
			}
			return sd
		},
		OnConflict: func(itemId string) error {
			return exceptions.InvalidInput("You are already subscribed to this author.")
		},
		OnMissing: func(itemId string) error {
			return exceptions.InvalidInput("You are not subscribed to this author.")
		},
	}
}

func NewMemoryReferences(name string) *MemoryRepository[data.ReferenceDTO, data.ReferenceInputDTO] {
	return &MemoryRepository[data.ReferenceDTO, data.ReferenceInputDTO]{
		Name:       name,
		Descending: true,
		GetSK:      func(rd data.ReferenceDTO) string { return rd.SK },
		GetIndex:   func(rd data.ReferenceDTO) string { return rd.FirstIndex },
		OnCreate: func(rid data.ReferenceInputDTO, t time.Time, pk, sk string) data.ReferenceDTO {
			return data.ReferenceDTO{
				PK:         pk,
				SK:         sk,
				FirstIndex: sk + ":Reference",
				AccountId:  *rid.AccountId,
				CreateTime: t,
				UpdateTime: t,
			}
		},
		OnConflict: func(itemId string) error {
			return exceptions.InvalidInput(fmt.Sprintf("Recipe is already in %s.", strings.ToLower(name)))
		},
		OnMissing: func(itemId string) error {
			return exceptions.InvalidInput(fmt.Sprintf("Recipe is not in %s.", strings.ToLower(name)))
		},
	}
}

type MemoryShoppingCart struct {
	*MemoryRepository[data.ReferenceDTO, data.ReferenceInputDTO]
	Recipes data.RecipeRepository
}

func (mc *MemoryShoppingCart) Ingredients(ctx context.Context, accountId string) ([]data.RecipeIngredientDTO, error) {
	entries, err := data.ListAll(ctx, func(ctx context.Context, params data.QueryParams) (data.QueryResults[data.ReferenceDTO], error) {
		return mc.List(ctx, accountId, params)
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.SK
	}
	recipes, err := mc.Recipes.BatchGet(ctx, ids)
	if err != nil {
		return nil, err
	}
	var lines []data.RecipeIngredientDTO
	for _, recipe := range recipes {
		lines = append(lines, recipe.Ingredients...)
	}
	return lines, nil
}

func NewMemoryShoppingCart(recipes data.RecipeRepository) *MemoryShoppingCart {
	return &MemoryShoppingCart{
		MemoryRepository: NewMemoryReferences("ShoppingCart"),
		Recipes:          recipes,
	}
}

type MemoryIngredients struct {
	*MemoryRepository[data.IngredientDTO, data.IngredientInputDTO]
}

func NewMemoryIngredients() *MemoryIngredients {
	return &MemoryIngredients{
		MemoryRepository: &MemoryRepository[data.IngredientDTO, data.IngredientInputDTO]{
			Name:  "Ingredient",
			GetSK: func(id data.IngredientDTO) string { return id.Name + "\x00" + id.SK },
			OnCreate: func(iid data.IngredientInputDTO, t time.Time, pk, sk string) data.IngredientDTO {
				return data.IngredientDTO{
					PK:              pk,
					SK:              sk,
					Name:            *iid.Name,
					MeasurementUnit: *iid.MeasurementUnit,
					SearchName:      strings.ToLower(*iid.Name),
					CreateTime:      t,
					UpdateTime:      t,
				}
			},
		},
	}
}

// Create keys the ingredient by its (name, unit) pair, like the table does.
func (mi *MemoryIngredients) Create(ctx context.Context, accountId string, input data.IngredientInputDTO) (data.IngredientDTO, error) {
	return mi.CreateWithItemId(ctx, accountId, input, ingredients.IngredientId(*input.Name, *input.MeasurementUnit))
}

func (mi *MemoryIngredients) Search(ctx context.Context, prefix string, params data.QueryParams) (data.QueryResults[data.IngredientDTO], error) {
	mi.mu.Lock()
	defer mi.mu.Unlock()
	var items []data.IngredientDTO
	for _, item := range mi.Items[mi.partition(data.GLOBAL_ACCOUNT)] {
		if strings.HasPrefix(item.SearchName, strings.ToLower(prefix)) {
			items = append(items, item)
		}
	}
	return mi.page(items, params), nil
}

type MemoryUsers struct {
	*MemoryRepository[data.UserDTO, data.UserInputDTO]
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		MemoryRepository: &MemoryRepository[data.UserDTO, data.UserInputDTO]{
			Name:  "User",
			GetSK: func(ud data.UserDTO) string { return ud.SK },
			OnCreate: func(uid data.UserInputDTO, t time.Time, pk, sk string) data.UserDTO {
				return data.UserDTO{
					PK:           pk,
					SK:           sk,
					Email:        *uid.Email,
					Username:     *uid.Username,
					FirstName:    *uid.FirstName,
					LastName:     *uid.LastName,
					PasswordHash: *uid.PasswordHash,
					CreateTime:   t,
					UpdateTime:   t,
				}
			},
			OnUpdate: func(ud data.UserDTO, uid data.UserInputDTO) data.UserDTO {
				if uid.FirstName != nil {
					ud.FirstName = *uid.FirstName
				}
				if uid.LastName != nil {
					ud.LastName = *uid.LastName
				}
				if uid.PasswordHash != nil {
					ud.PasswordHash = *uid.PasswordHash
				}
				if uid.Avatar != nil {
					ud.Avatar = *uid.Avatar
				}
				return ud
			},
		},
	}
}

func (mu *MemoryUsers) Register(ctx context.Context, input data.UserInputDTO) (data.UserDTO, error) {
	all, err := data.ListAll(ctx, func(ctx context.Context, params data.QueryParams) (data.QueryResults[data.UserDTO], error) {
		return mu.List(ctx, data.GLOBAL_ACCOUNT, params)
	})
	if err != nil {
		return data.UserDTO{}, err
	}
	for _, user := range all {
		if strings.EqualFold(user.Email, *input.Email) {
			return data.UserDTO{}, exceptions.InvalidInput("A user with that email already exists.")
		}
		if strings.EqualFold(user.Username, *input.Username) {
			return data.UserDTO{}, exceptions.InvalidInput("A user with that username already exists.")
		}
	}
	return mu.Create(ctx, data.GLOBAL_ACCOUNT, input)
}

func (mu *MemoryUsers) FindByEmail(ctx context.Context, email string) (data.UserDTO, error) {
	all, err := data.ListAll(ctx, func(ctx context.Context, params data.QueryParams) (data.QueryResults[data.UserDTO], error) {
		return mu.List(ctx, data.GLOBAL_ACCOUNT, params)
	})
	if err != nil {
		return data.UserDTO{}, err
	}
	for _, user := range all {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return data.UserDTO{}, exceptions.NotFound("user", email)
}

// MemoryRecipes assigns short codes through the same generator as the table
// backed repository, with Codes acting as the claim partition.
type MemoryRecipes struct {
	*MemoryRepository[data.RecipeDTO, data.RecipeInputDTO]
	Codes     map[string]string
	Generator *shortcode.Generator
}

func NewMemoryRecipes() *MemoryRecipes {
	return &MemoryRecipes{
		Codes:     make(map[string]string),
		Generator: shortcode.NewGenerator(),
		MemoryRepository: &MemoryRepository[data.RecipeDTO, data.RecipeInputDTO]{
			Name:       "Recipe",
			Descending: true,
			GetSK:      func(rd data.RecipeDTO) string { return rd.SK },
			GetIndex:   func(rd data.RecipeDTO) string { return rd.FirstIndex },
			OnCreate: func(rid data.RecipeInputDTO, t time.Time, pk, sk string) data.RecipeDTO {
				recipe := data.RecipeDTO{
					PK:          pk,
					SK:          sk,
					FirstIndex:  *rid.Author + ":Recipe",
					Author:      *rid.Author,
					Name:        *rid.Name,
					Text:        *rid.Text,
					Image:       *rid.Image,
					CookingTime: *rid.CookingTime,
					Tags:        *rid.Tags,
					Ingredients: *rid.Ingredients,
					CreateTime:  t,
					UpdateTime:  t,
				}
				for _, tag := range recipe.Tags {
					recipe.TagSlugs = append(recipe.TagSlugs, tag.Slug)
				}
				return recipe
			},
			OnUpdate: func(rd data.RecipeDTO, rid data.RecipeInputDTO) data.RecipeDTO {
				if rid.Name != nil {
					rd.Name = *rid.Name
				}
				if rid.Text != nil {
					rd.Text = *rid.Text
				}
				if rid.Image != nil {
					rd.Image = *rid.Image
				}
				if rid.CookingTime != nil {
					rd.CookingTime = *rid.CookingTime
				}
				if rid.Tags != nil {
					rd.Tags = *rid.Tags
					rd.TagSlugs = nil
					for _, tag := range rd.Tags {
						rd.TagSlugs = append(rd.TagSlugs, tag.Slug)
					}
				}
				if rid.Ingredients != nil {
					rd.Ingredients = *rid.Ingredients
				}
				rd.UpdateTime = time.Now()
				return rd
			},
		},
	}
}

func (mr *MemoryRecipes) Get(ctx context.Context, recipeId string) (data.RecipeDTO, error) {
	return mr.MemoryRepository.Get(ctx, data.GLOBAL_ACCOUNT, recipeId)
}

func (mr *MemoryRecipes) BatchGet(ctx context.Context, recipeIds []string) ([]data.RecipeDTO, error) {
	return mr.MemoryRepository.BatchGet(ctx, data.GLOBAL_ACCOUNT, recipeIds)
}

func (mr *MemoryRecipes) List(ctx context.Context, filter data.RecipeFilter, params data.QueryParams) (data.QueryResults[data.RecipeDTO], error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	var items []data.RecipeDTO
	for _, recipe := range mr.Items[mr.partition(data.GLOBAL_ACCOUNT)] {
		if filter.Matches(recipe) {
			items = append(items, recipe)
		}
	}
	return mr.page(items, params), nil
}

func (mr *MemoryRecipes) Exists(ctx context.Context, code string) (bool, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	_, ok := mr.Codes[code]
	return ok, nil
}

func (mr *MemoryRecipes) FindByShortCode(ctx context.Context, code string) (data.RecipeDTO, error) {
	mr.mu.Lock()
	recipeId, ok := mr.Codes[code]
	mr.mu.Unlock()
	if !ok {
		return data.RecipeDTO{}, exceptions.NotFound("short link", code)
	}
	return mr.Get(ctx, recipeId)
}

func (mr *MemoryRecipes) Create(ctx context.Context, input data.RecipeInputDTO) (data.RecipeDTO, error) {
	code, err := mr.Generator.Candidate(ctx, mr)
	if err != nil {
		return data.RecipeDTO{}, err
	}
	recipe, err := mr.MemoryRepository.Create(ctx, data.GLOBAL_ACCOUNT, input)
	if err != nil {
		return recipe, err
	}
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if _, taken := mr.Codes[code]; taken {
		delete(mr.Items[mr.partition(data.GLOBAL_ACCOUNT)], recipe.SK)
		return data.RecipeDTO{}, exceptions.Conflict("short code", code)
	}
	recipe.ShortCode = code
	mr.Items[mr.partition(data.GLOBAL_ACCOUNT)][recipe.SK] = recipe
	mr.Codes[code] = recipe.SK
	return recipe, nil
}

func (mr *MemoryRecipes) Update(ctx context.Context, recipeId string, input data.RecipeInputDTO) (data.RecipeDTO, error) {
	return mr.MemoryRepository.Update(ctx, data.GLOBAL_ACCOUNT, recipeId, input)
}

func (mr *MemoryRecipes) Delete(ctx context.Context, recipeId string) error {
	recipe, err := mr.Get(ctx, recipeId)
	if err != nil {
		return err
	}
	if err := mr.MemoryRepository.Delete(ctx, data.GLOBAL_ACCOUNT, recipeId); err != nil {
		return err
	}
	mr.mu.Lock()
	defer mr.mu.Unlock()
	delete(mr.Codes, recipe.ShortCode)
	return nil
}
