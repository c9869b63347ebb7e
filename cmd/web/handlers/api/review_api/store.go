package review_api

import (
	"context"

	"thirdcoast.systems/openvidreview/internal/db"
)

// ReviewStore is implemented by *db.ReviewStore.
type ReviewStore interface {
	List(ctx context.Context) ([]*db.Review, error)
	Get(ctx context.Context, name string) (*db.Review, error)
	Update(ctx context.Context, id int64, name, password string) (*db.Review, error)
	Delete(ctx context.Context, id int64) (*db.Review, error)
}
