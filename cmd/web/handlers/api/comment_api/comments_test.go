package comment_api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thirdcoast.systems/openvidreview/internal/db"
)

type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*db.Comment
	colors   []*db.Color
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		comments: map[int64]*db.Comment{},
		colors: []*db.Color{
			{ID: 1, Name: "Blue", ResolveColor: "#4cb7e3"},
			{ID: 2, Name: "Red", ResolveColor: "#FF0000"},
		},
	}
}

func (s *fakeStore) List(ctx context.Context, videoID string) ([]*db.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []*db.Comment{}
	for _, c := range s.comments {
		if c.VideoID == videoID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

func (s *fakeStore) Create(ctx context.Context, nc db.NewComment) (*db.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, col := range s.colors {
		if col.Name == nc.ColorName {
			s.nextID++
			c := &db.Comment{
				ID:        s.nextID,
				VideoID:   nc.VideoID,
				Text:      nc.Text,
				Timestamp: nc.Timestamp,
				Username:  nc.Username,
				Color:     col.ResolveColor,
				ColorName: col.Name,
			}
			s.comments[c.ID] = c
			return c, nil
		}
	}
	return nil, db.ErrUnknownColor
}

func (s *fakeStore) SetDone(ctx context.Context, id int64, done bool) (*db.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, db.ErrCommentNotFound
	}
	c.IsDone = done
	return c, nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return db.ErrCommentNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *fakeStore) Colors(ctx context.Context) ([]*db.Color, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.colors, nil
}

func newServer(store CommentStore) *echo.Echo {
	e := echo.New()
	e.GET("/colors", HandleColors(store))
	e.GET("/comments/:videoId", HandleList(store))
	e.POST("/comments", HandleCreate(store))
	e.PUT("/comments/:id/done", HandleSetDone(store))
	e.DELETE("/comments/:id", HandleDelete(store))
	return e
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

func TestCreateAndList(t *testing.T) {
	store := newFakeStore()
	e := newServer(store)

	rec := serve(e, http.MethodPost, "/comments", `{"videoId":"Demo Cut","text":"later","timestamp":9000,"username":"ana","colorName":"Red"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = serve(e, http.MethodPost, "/comments", `{"videoId":"Demo Cut","text":"first","timestamp":1500,"username":"ana","colorName":"Blue"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created db.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "#4cb7e3", created.Color)
	assert.Equal(t, "Blue", created.ColorName)

	rec = serve(e, http.MethodGet, "/comments/Demo%20Cut", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []db.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "first", listed[0].Text)
	assert.Equal(t, "later", listed[1].Text)
}

func TestList_VideoIDMatchedAsStored(t *testing.T) {
	store := newFakeStore()
	e := newServer(store)

	rec := serve(e, http.MethodPost, "/comments", `{"videoId":" Dup","text":"padded","timestamp":1,"username":"ana","colorName":"Red"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(e, http.MethodGet, "/comments/Dup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = serve(e, http.MethodGet, "/comments/%20Dup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []db.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, " Dup", listed[0].VideoID)
}

func TestList_Empty(t *testing.T) {
	rec := serve(newServer(newFakeStore()), http.MethodGet, "/comments/none", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "unknown color", body: `{"videoId":"v","text":"t","timestamp":1,"username":"u","colorName":"Mauve"}`, want: http.StatusBadRequest},
		{name: "missing text", body: `{"videoId":"v","text":"  ","timestamp":1,"username":"u","colorName":"Red"}`, want: http.StatusBadRequest},
		{name: "missing video", body: `{"text":"t","timestamp":1,"username":"u","colorName":"Red"}`, want: http.StatusBadRequest},
		{name: "negative timestamp", body: `{"videoId":"v","text":"t","timestamp":-1,"username":"u","colorName":"Red"}`, want: http.StatusBadRequest},
		{name: "missing username", body: `{"videoId":"v","text":"t","timestamp":1,"colorName":"Red"}`, want: http.StatusBadRequest},
		{name: "malformed", body: `{"videoId":`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			rec := serve(newServer(store), http.MethodPost, "/comments", tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Empty(t, store.comments)
		})
	}
}

func TestSetDone(t *testing.T) {
	store := newFakeStore()
	e := newServer(store)
	c, err := store.Create(context.Background(), db.NewComment{VideoID: "v", Text: "t", Username: "u", ColorName: "Red"})
	require.NoError(t, err)

	rec := serve(e, http.MethodPut, "/comments/1/done", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, c.IsDone)

	rec = serve(e, http.MethodPut, "/comments/1/done", `{"isDone":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, c.IsDone)

	rec = serve(e, http.MethodPut, "/comments/42/done", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	e := newServer(store)
	_, err := store.Create(context.Background(), db.NewComment{VideoID: "v", Text: "t", Username: "u", ColorName: "Red"})
	require.NoError(t, err)

	rec := serve(e, http.MethodDelete, "/comments/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.comments)

	rec = serve(e, http.MethodDelete, "/comments/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, http.MethodDelete, "/comments/zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestColors(t *testing.T) {
	rec := serve(newServer(newFakeStore()), http.MethodGet, "/colors", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var colors []db.Color
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &colors))
	require.Len(t, colors, 2)
	assert.Equal(t, "Blue", colors[0].Name)
}

func TestStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection reset")
	e := newServer(store)

	assert.Equal(t, http.StatusInternalServerError, serve(e, http.MethodGet, "/colors", "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(e, http.MethodGet, "/comments/v", "").Code)
	rec := serve(e, http.MethodPost, "/comments", `{"videoId":"v","text":"t","timestamp":1,"username":"u","colorName":"Red"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
