package comment_api

import (
	"context"

	"thirdcoast.systems/openvidreview/internal/db"
)

// CommentStore is implemented by *db.CommentStore.
type CommentStore interface {
	List(ctx context.Context, videoID string) ([]*db.Comment, error)
	Create(ctx context.Context, c db.NewComment) (*db.Comment, error)
	SetDone(ctx context.Context, id int64, done bool) (*db.Comment, error)
	Delete(ctx context.Context, id int64) error
	Colors(ctx context.Context) ([]*db.Color, error)
}
