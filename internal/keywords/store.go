package keywords

import (
	"context"
	"errors"
	"fmt"
)

const (
	KindCategory = "category"
	KindRole     = "role"
)

// SetStore is a persistent home for keyword sets, such as the keyword_sets
// table.
type SetStore interface {
	LoadSets(ctx context.Context) (categories, roles []KeywordSet, err error)
	ReplaceSets(ctx context.Context, categories, roles []KeywordSet) error
}

func LoadStore(ctx context.Context, store SetStore) (*Tables, error) {
	if store == nil {
		return nil, errors.New("keywords: nil store")
	}
	cats, roles, err := store.LoadSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("keywords: load sets: %w", err)
	}
	return New(cats, roles)
}

func SeedStore(ctx context.Context, store SetStore, t *Tables) error {
	if store == nil {
		return errors.New("keywords: nil store")
	}
	return store.ReplaceSets(ctx, t.Categories(), t.Roles())
}
