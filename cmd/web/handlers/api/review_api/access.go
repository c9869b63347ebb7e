package review_api

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/internal/db"
	"thirdcoast.systems/openvidreview/internal/ingest"
)

const MsgInvalidCredentials = "Invalid review name or password."

type accessRequest struct {
	ReviewName string `json:"reviewName"`
	Password   string `json:"password"`
}

type accessResponse struct {
	ID         int64   `json:"id"`
	ReviewName string  `json:"reviewName"`
	VideoURL   string  `json:"videoUrl"`
	FrameRate  float64 `json:"frameRate"`
}

// HandleAccess opens a review for a viewer who knows its password.
func HandleAccess(store ReviewStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req accessRequest
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid request body")
		}

		name := req.ReviewName
		if err := ingest.ValidateName(name); err != nil {
			return common.Message(c, http.StatusBadRequest, err.Error())
		}

		review, err := store.Get(c.Request().Context(), name)
		switch {
		case errors.Is(err, db.ErrReviewNotFound):
			return common.ErrUnauthorized(MsgInvalidCredentials)
		case err != nil:
			slog.Error("failed to load review", "error", err, "review_name", name)
			return common.Message(c, http.StatusInternalServerError, ingest.MsgDatabase)
		}

		if subtle.ConstantTimeCompare([]byte(review.Password), []byte(req.Password)) != 1 {
			return common.ErrUnauthorized(MsgInvalidCredentials)
		}

		return c.JSON(http.StatusOK, accessResponse{
			ID:         review.ID,
			ReviewName: review.ReviewName,
			VideoURL:   review.VideoURL,
			FrameRate:  review.FrameRate,
		})
	}
}
