package review_api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/internal/db"
	"thirdcoast.systems/openvidreview/internal/ingest"
	"thirdcoast.systems/openvidreview/pkg/assetstore"
)

const assetDeleteTimeout = 30 * time.Second

// HandleDelete removes a review and its comments. The remote asset is
// removed afterwards on a best-effort basis when deleter is non-nil.
func HandleDelete(store ReviewStore, deleter assetstore.Deleter) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := common.RequireIDParam(c, "id")
		if err != nil {
			return err
		}

		review, err := store.Delete(c.Request().Context(), id)
		switch {
		case errors.Is(err, db.ErrReviewNotFound):
			return common.ErrNotFound("Review not found.")
		case err != nil:
			slog.Error("failed to delete review", "error", err, "id", id)
			return common.Message(c, http.StatusInternalServerError, ingest.MsgDatabase)
		}

		if deleter != nil && review.ProviderID != "" {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), assetDeleteTimeout)
			defer cancel()
			if err := deleter.Delete(ctx, review.ProviderID, assetstore.ResourceTypeVideo); err != nil {
				slog.Warn("failed to delete remote asset", "error", err, "provider_id", review.ProviderID)
			}
		}

		slog.Info("Review deleted", "id", id, "review_name", review.ReviewName)
		return common.Message(c, http.StatusOK, "Review deleted successfully.")
	}
}
