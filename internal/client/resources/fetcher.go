package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/govadmin/internal/client/listing"
	"github.com/dmitrijs2005/govadmin/internal/client/models"
)

// Lister is the listing call of the API client.
type Lister interface {
	List(ctx context.Context, endpoint string, shape models.ListShape, q models.Query) (*models.RawPage, error)
}

// NewFetcher adapts the listing endpoint of r to a listing.Fetcher that
// decodes every item into T.
func NewFetcher[T any](l Lister, r Resource) listing.Fetcher[T] {
	return func(ctx context.Context, q models.Query) (models.Page[T], error) {
		raw, err := l.List(ctx, r.ListPath(), r.Shape, q)
		if err != nil {
			return models.Page[T]{}, err
		}

		items := make([]T, 0, len(raw.Items))
		for i, it := range raw.Items {
			var v T
			if err := json.Unmarshal(it, &v); err != nil {
				return models.Page[T]{}, fmt.Errorf("%s item %d: %w", r.Name, i, err)
			}
			items = append(items, v)
		}
		return models.Page[T]{Items: items, Total: raw.Total}, nil
	}
}
