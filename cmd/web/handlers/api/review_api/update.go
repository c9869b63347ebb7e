package review_api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/internal/db"
	"thirdcoast.systems/openvidreview/internal/ingest"
)

type updateRequest struct {
	ReviewName string `json:"reviewName"`
	Password   string `json:"password"`
}

type updateResponse struct {
	Message string     `json:"message"`
	Review  *db.Review `json:"review"`
}

// HandleUpdate renames a review and/or changes its password.
func HandleUpdate(store ReviewStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := common.RequireIDParam(c, "id")
		if err != nil {
			return err
		}

		var req updateRequest
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid request body")
		}

		name := req.ReviewName
		if err := ingest.ValidateName(name); err != nil {
			return common.Message(c, http.StatusBadRequest, err.Error())
		}
		if err := ingest.CheckPassword(req.Password); err != nil {
			return common.Message(c, http.StatusBadRequest, err.Error())
		}

		review, err := store.Update(c.Request().Context(), id, name, req.Password)
		switch {
		case errors.Is(err, db.ErrReviewNotFound):
			return common.ErrNotFound("Review not found.")
		case errors.Is(err, db.ErrReviewNameTaken):
			return common.Message(c, http.StatusBadRequest, ingest.MsgNameTaken)
		case err != nil:
			slog.Error("failed to update review", "error", err, "id", id)
			return common.Message(c, http.StatusInternalServerError, ingest.MsgDatabase)
		}

		slog.Info("Review updated", "id", id, "review_name", review.ReviewName)
		return c.JSON(http.StatusOK, updateResponse{Message: "Review updated successfully.", Review: review})
	}
}
