package review_api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thirdcoast.systems/openvidreview/internal/db"
	"thirdcoast.systems/openvidreview/internal/ingest"
)

type fakeStore struct {
	mu      sync.Mutex
	reviews map[int64]*db.Review
	err     error
}

func newFakeStore(reviews ...*db.Review) *fakeStore {
	s := &fakeStore{reviews: map[int64]*db.Review{}}
	for _, r := range reviews {
		s.reviews[r.ID] = r
	}
	return s
}

func (s *fakeStore) List(ctx context.Context) ([]*db.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []*db.Review{}
	for id := int64(1); id <= int64(len(s.reviews)+10); id++ {
		if r, ok := s.reviews[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, name string) (*db.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.ReviewName == name {
			return r, nil
		}
	}
	return nil, db.ErrReviewNotFound
}

func (s *fakeStore) Update(ctx context.Context, id int64, name, password string) (*db.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, db.ErrReviewNotFound
	}
	for otherID, other := range s.reviews {
		if otherID != id && other.ReviewName == name {
			return nil, db.ErrReviewNameTaken
		}
	}
	updated := *r
	updated.ReviewName, updated.Password = name, password
	s.reviews[id] = &updated
	return &updated, nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) (*db.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.reviews[id]
	if !ok {
		return nil, db.ErrReviewNotFound
	}
	delete(s.reviews, id)
	return r, nil
}

type fakeDeleter struct {
	deleted []string
	err     error
}

func (d *fakeDeleter) Delete(ctx context.Context, providerID, resourceType string) error {
	d.deleted = append(d.deleted, providerID)
	return d.err
}

func sampleReviews() []*db.Review {
	return []*db.Review{
		{ID: 1, ReviewName: "Demo Cut", VideoURL: "https://cdn/1.mp4", Password: "abc", FrameRate: 24, ProviderID: "openvidreview/Demo_Cut_1"},
		{ID: 2, ReviewName: "Final", VideoURL: "https://cdn/2.mp4", Password: "xyz", FrameRate: 25},
	}
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out.Message
}

func TestHandleList(t *testing.T) {
	e := echo.New()
	e.GET("/reviews/all", HandleList(newFakeStore(sampleReviews()...)))

	rec := serve(e, http.MethodGet, "/reviews/all", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []db.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Demo Cut", got[0].ReviewName)
	assert.Equal(t, "abc", got[0].Password)
	assert.Equal(t, 24.0, got[0].FrameRate)
}

func TestHandleList_Empty(t *testing.T) {
	e := echo.New()
	e.GET("/reviews/all", HandleList(newFakeStore()))

	rec := serve(e, http.MethodGet, "/reviews/all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleUpdate(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		want   int
		msg    string
	}{
		{name: "rename", target: "/reviews/1", body: `{"reviewName":"Director Cut","password":"new"}`, want: http.StatusOK, msg: "Review updated successfully."},
		{name: "collision", target: "/reviews/1", body: `{"reviewName":"Final","password":"abc"}`, want: http.StatusBadRequest, msg: ingest.MsgNameTaken},
		{name: "missing", target: "/reviews/99", body: `{"reviewName":"X","password":"abc"}`, want: http.StatusNotFound, msg: "Review not found."},
		{name: "blank name", target: "/reviews/1", body: `{"reviewName":" ","password":"abc"}`, want: http.StatusBadRequest, msg: ingest.ErrNameRequired.Error()},
		{name: "blank password", target: "/reviews/1", body: `{"reviewName":"Y","password":""}`, want: http.StatusBadRequest, msg: ingest.ErrPasswordRequired.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.PUT("/reviews/:id", HandleUpdate(newFakeStore(sampleReviews()...)))

			rec := serve(e, http.MethodPut, tt.target, tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Equal(t, tt.msg, message(t, rec))
		})
	}
}

func TestHandleUpdate_BadID(t *testing.T) {
	e := echo.New()
	e.PUT("/reviews/:id", HandleUpdate(newFakeStore()))

	rec := serve(e, http.MethodPut, "/reviews/abc", `{"reviewName":"X","password":"y"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDelete_RemovesRemoteAsset(t *testing.T) {
	store := newFakeStore(sampleReviews()...)
	deleter := &fakeDeleter{}
	e := echo.New()
	e.DELETE("/reviews/:id", HandleDelete(store, deleter))

	rec := serve(e, http.MethodDelete, "/reviews/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Review deleted successfully.", message(t, rec))
	assert.Equal(t, []string{"openvidreview/Demo_Cut_1"}, deleter.deleted)
	assert.Len(t, store.reviews, 1)
}

func TestHandleDelete_AssetFailureIsNotFatal(t *testing.T) {
	deleter := &fakeDeleter{err: errors.New("provider down")}
	e := echo.New()
	e.DELETE("/reviews/:id", HandleDelete(newFakeStore(sampleReviews()...), deleter))

	rec := serve(e, http.MethodDelete, "/reviews/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleDelete_NoProviderIDSkipsRemote(t *testing.T) {
	deleter := &fakeDeleter{}
	e := echo.New()
	e.DELETE("/reviews/:id", HandleDelete(newFakeStore(sampleReviews()...), deleter))

	rec := serve(e, http.MethodDelete, "/reviews/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, deleter.deleted)
}

func TestHandleDelete_NotFound(t *testing.T) {
	e := echo.New()
	e.DELETE("/reviews/:id", HandleDelete(newFakeStore(), nil))

	rec := serve(e, http.MethodDelete, "/reviews/5", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Review not found.", message(t, rec))
}

func TestHandleAccess(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "valid", body: `{"reviewName":"Demo Cut","password":"abc"}`, want: http.StatusOK},
		{name: "wrong password", body: `{"reviewName":"Demo Cut","password":"nope"}`, want: http.StatusUnauthorized},
		{name: "unknown review", body: `{"reviewName":"Ghost","password":"abc"}`, want: http.StatusUnauthorized},
		{name: "blank name", body: `{"reviewName":"","password":"abc"}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.POST("/reviews/access", HandleAccess(newFakeStore(sampleReviews()...)))

			rec := serve(e, http.MethodPost, "/reviews/access", tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, MsgInvalidCredentials, message(t, rec))
			}
			if tt.want == http.StatusOK {
				assert.NotContains(t, rec.Body.String(), "password")
				assert.Contains(t, rec.Body.String(), `"videoUrl":"https://cdn/1.mp4"`)
			}
		})
	}
}
