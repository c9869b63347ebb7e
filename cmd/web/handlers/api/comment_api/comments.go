package comment_api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/internal/db"
	"thirdcoast.systems/openvidreview/internal/ingest"
)

const (
	maxCommentLength  = 5000
	maxUsernameLength = 100
)

type createRequest struct {
	VideoID   string `json:"videoId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Username  string `json:"username"`
	ColorName string `json:"colorName"`
}

type doneRequest struct {
	IsDone *bool `json:"isDone"`
}

// HandleList returns the comments of one review ordered by playback
// position.
func HandleList(store CommentStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		// videoId is a review name, which is matched exactly as stored.
		videoID := c.Param("videoId")
		if strings.TrimSpace(videoID) == "" {
			return common.ErrBadRequest("missing videoId")
		}

		comments, err := store.List(c.Request().Context(), videoID)
		if err != nil {
			slog.Error("failed to list comments", "error", err, "video_id", videoID)
			return common.ErrInternal(ingest.MsgDatabase)
		}
		return c.JSON(http.StatusOK, comments)
	}
}

func (r *createRequest) validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.ColorName = strings.TrimSpace(r.ColorName)

	switch {
	case strings.TrimSpace(r.VideoID) == "":
		return errors.New("videoId is required")
	case strings.TrimSpace(r.Text) == "":
		return errors.New("text is required")
	case utf8.RuneCountInString(r.Text) > maxCommentLength:
		return errors.New("text is too long")
	case r.Username == "":
		return errors.New("username is required")
	case utf8.RuneCountInString(r.Username) > maxUsernameLength:
		return errors.New("username is too long")
	case r.Timestamp < 0:
		return errors.New("timestamp must not be negative")
	case r.ColorName == "":
		return errors.New("colorName is required")
	}
	return nil
}

// HandleCreate stores a comment pinned to a playback position.
func HandleCreate(store CommentStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createRequest
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid request body")
		}
		if err := req.validate(); err != nil {
			return common.Message(c, http.StatusBadRequest, err.Error())
		}

		comment, err := store.Create(c.Request().Context(), db.NewComment{
			VideoID:   req.VideoID,
			Text:      req.Text,
			Timestamp: req.Timestamp,
			Username:  req.Username,
			ColorName: req.ColorName,
		})
		switch {
		case errors.Is(err, db.ErrUnknownColor):
			return common.Message(c, http.StatusBadRequest, "Unknown color.")
		case err != nil:
			slog.Error("failed to create comment", "error", err, "video_id", req.VideoID)
			return common.Message(c, http.StatusInternalServerError, ingest.MsgDatabase)
		}

		return c.JSON(http.StatusCreated, comment)
	}
}

// HandleSetDone marks a comment as addressed, or reopens it.
func HandleSetDone(store CommentStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := common.RequireIDParam(c, "id")
		if err != nil {
			return err
		}

		var req doneRequest
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid request body")
		}
		done := true
		if req.IsDone != nil {
			done = *req.IsDone
		}

		comment, err := store.SetDone(c.Request().Context(), id, done)
		switch {
		case errors.Is(err, db.ErrCommentNotFound):
			return common.ErrNotFound("Comment not found.")
		case err != nil:
			slog.Error("failed to update comment", "error", err, "id", id)
			return common.Message(c, http.StatusInternalServerError, ingest.MsgDatabase)
		}
		return c.JSON(http.StatusOK, comment)
	}
}

func HandleDelete(store CommentStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := common.RequireIDParam(c, "id")
		if err != nil {
			return err
		}

		err = store.Delete(c.Request().Context(), id)
		switch {
		case errors.Is(err, db.ErrCommentNotFound):
			return common.ErrNotFound("Comment not found.")
		case err != nil:
			slog.Error("failed to delete comment", "error", err, "id", id)
			return common.Message(c, http.StatusInternalServerError, ingest.MsgDatabase)
		}
		return common.Message(c, http.StatusOK, "Comment deleted successfully.")
	}
}

// HandleColors returns the comment color palette.
func HandleColors(store CommentStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		colors, err := store.Colors(c.Request().Context())
		if err != nil {
			slog.Error("failed to list colors", "error", err)
			return common.ErrInternal(ingest.MsgDatabase)
		}
		return c.JSON(http.StatusOK, colors)
	}
}
