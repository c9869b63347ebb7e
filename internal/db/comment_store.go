package db

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrUnknownColor    = errors.New("unknown color")
)

// NewComment is a comment left at a playback position (milliseconds) of a
// review's video. VideoID is the review name.
type NewComment struct {
	VideoID   string
	Text      string
	Timestamp int64
	Username  string
	ColorName string
}

type CommentStore struct {
	dbc *DatabaseConnection
}

func NewCommentStore(dbc *DatabaseConnection) *CommentStore {
	return &CommentStore{dbc: dbc}
}

func (s *CommentStore) List(ctx context.Context, videoID string) ([]*Comment, error) {
	rows, err := s.dbc.Queries(ctx).ListCommentsByVideo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if rows == nil {
		rows = []*Comment{}
	}
	return rows, nil
}

// Create resolves the palette color by name and stores the comment.
func (s *CommentStore) Create(ctx context.Context, c NewComment) (*Comment, error) {
	q := s.dbc.Queries(ctx)

	color, err := q.GetColorByName(ctx, c.ColorName)
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("color %q: %w", c.ColorName, ErrUnknownColor)
		}
		return nil, fmt.Errorf("lookup color: %w", err)
	}

	row, err := q.InsertComment(ctx, &InsertCommentParams{
		VideoID:   c.VideoID,
		Text:      c.Text,
		Timestamp: c.Timestamp,
		Username:  c.Username,
		Color:     color.ResolveColor,
		ColorName: color.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return row, nil
}

func (s *CommentStore) SetDone(ctx context.Context, id int64, done bool) (*Comment, error) {
	row, err := s.dbc.Queries(ctx).SetCommentDone(ctx, &SetCommentDoneParams{ID: id, IsDone: done})
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("comment %d: %w", id, ErrCommentNotFound)
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return row, nil
}

func (s *CommentStore) Delete(ctx context.Context, id int64) error {
	n, err := s.dbc.Queries(ctx).DeleteComment(ctx, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("comment %d: %w", id, ErrCommentNotFound)
	}
	return nil
}

func (s *CommentStore) Colors(ctx context.Context) ([]*Color, error) {
	rows, err := s.dbc.Queries(ctx).ListColors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	if rows == nil {
		rows = []*Color{}
	}
	return rows, nil
}
