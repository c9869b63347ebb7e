package db

import (
	"context"
	"errors"
	"fmt"
)

const reviewNameConstraint = "reviews_review_name_key"

var (
	// ErrReviewNameTaken is returned when the unique constraint on
	// reviews.review_name rejects a write.
	ErrReviewNameTaken = errors.New("review name already exists")
	ErrReviewNotFound  = errors.New("review not found")
)

// NewReview holds every field required to create a review. A row is only
// written once all of them are known.
type NewReview struct {
	ReviewName string
	VideoURL   string
	Password   string
	FrameRate  float64
	ProviderID string
}

// ReviewStore is the identity store for reviews. Lookups always hit the
// database; nothing is cached because NameExists gates creation.
type ReviewStore struct {
	dbc     *DatabaseConnection
	queries func(ctx context.Context) *Queries
}

func NewReviewStore(dbc *DatabaseConnection) *ReviewStore {
	return &ReviewStore{dbc: dbc, queries: dbc.Queries}
}

func (s *ReviewStore) NameExists(ctx context.Context, name string) (bool, error) {
	exists, err := s.queries(ctx).ReviewNameExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check review name: %w", err)
	}
	return exists, nil
}

// Insert creates the review row. The unique constraint is authoritative:
// a concurrent insert of the same name surfaces as ErrReviewNameTaken.
func (s *ReviewStore) Insert(ctx context.Context, r NewReview) (int64, error) {
	row, err := s.queries(ctx).InsertReview(ctx, &InsertReviewParams{
		ReviewName: r.ReviewName,
		VideoURL:   r.VideoURL,
		Password:   r.Password,
		FrameRate:  r.FrameRate,
		ProviderID: r.ProviderID,
	})
	if err != nil {
		if IsUniqueViolation(err, reviewNameConstraint) {
			return 0, fmt.Errorf("insert review %q: %w", r.ReviewName, ErrReviewNameTaken)
		}
		return 0, fmt.Errorf("insert review: %w", err)
	}
	return row.ID, nil
}

func (s *ReviewStore) Get(ctx context.Context, name string) (*Review, error) {
	row, err := s.queries(ctx).GetReviewByName(ctx, name)
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("get review %q: %w", name, ErrReviewNotFound)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return row, nil
}

// Update renames a review or changes its password. Comments follow the
// review to its new name.
func (s *ReviewStore) Update(ctx context.Context, id int64, name, password string) (*Review, error) {
	q, tx, err := s.dbc.NewWithTX(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	prev, err := q.GetReviewByID(ctx, id)
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("update review %d: %w", id, ErrReviewNotFound)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	row, err := q.UpdateReview(ctx, &UpdateReviewParams{
		ID:         id,
		ReviewName: name,
		Password:   password,
	})
	if err != nil {
		switch {
		case IsNoRows(err):
			return nil, fmt.Errorf("update review %d: %w", id, ErrReviewNotFound)
		case IsUniqueViolation(err, reviewNameConstraint):
			return nil, fmt.Errorf("update review %d: %w", id, ErrReviewNameTaken)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	if prev.ReviewName != row.ReviewName {
		if _, err := q.MoveCommentsToVideo(ctx, &MoveCommentsToVideoParams{
			VideoID:   prev.ReviewName,
			VideoID_2: row.ReviewName,
		}); err != nil {
			return nil, fmt.Errorf("move review comments: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update review: %w", err)
	}
	return row, nil
}

// Delete removes a review and its comments, returning the deleted row.
func (s *ReviewStore) Delete(ctx context.Context, id int64) (*Review, error) {
	q, tx, err := s.dbc.NewWithTX(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row, err := q.DeleteReview(ctx, id)
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("delete review %d: %w", id, ErrReviewNotFound)
		}
		return nil, fmt.Errorf("delete review: %w", err)
	}
	if _, err := q.DeleteCommentsByVideo(ctx, row.ReviewName); err != nil {
		return nil, fmt.Errorf("delete review comments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delete review: %w", err)
	}
	return row, nil
}

func (s *ReviewStore) List(ctx context.Context) ([]*Review, error) {
	rows, err := s.queries(ctx).ListReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if rows == nil {
		rows = []*Review{}
	}
	return rows, nil
}
