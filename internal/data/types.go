package data

import "context"

// Site wide partition owner for catalog and index items.
const GLOBAL_ACCOUNT = "Global"

const MAX_LIMIT = 100

type QueryParams struct {
	Limit     int    `json:"limit"`
	NextToken []byte `json:"nextToken"`
}

func (q *QueryParams) GetLimit() *int32 {
	limit := int32(q.Limit)
	if limit <= 0 || limit > MAX_LIMIT {
		limit = MAX_LIMIT
	}
	return &limit
}

type QueryResults[T interface{}] struct {
	Items     []T    `json:"items"`
	NextToken []byte `json:"nextToken"`
}

type NextToken map[string]map[string]string

type Repository[T interface{}, I interface{}] interface {
	List(ctx context.Context, accountId string, params QueryParams) (QueryResults[T], error)
	ListByIndex(ctx context.Context, indexName string, indexKey string, params QueryParams) (QueryResults[T], error)
	Get(ctx context.Context, accountId string, itemId string) (T, error)
	BatchGet(ctx context.Context, accountId string, itemIds []string) ([]T, error)
	Create(ctx context.Context, accountId string, input I) (T, error)
	CreateWithItemId(ctx context.Context, accountId string, input I, itemId string) (T, error)
	Update(ctx context.Context, accountId string, itemId string, input I) (T, error)
	Delete(ctx context.Context, accountId string, itemId string) error
}

// ListAll drains every page of a listing.
func ListAll[T interface{}](ctx context.Context, fetch func(context.Context, QueryParams) (QueryResults[T], error)) ([]T, error) {
	var items []T
	params := QueryParams{Limit: MAX_LIMIT}
	for {
		results, err := fetch(ctx, params)
		if err != nil {
			return nil, err
		}
		items = append(items, results.Items...)
		if len(results.NextToken) == 0 {
			return items, nil
		}
		params.NextToken = results.NextToken
	}
}
