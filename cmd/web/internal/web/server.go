package web

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"thirdcoast.systems/openvidreview/cmd/web/auth"
	"thirdcoast.systems/openvidreview/cmd/web/handlers/api/comment_api"
	"thirdcoast.systems/openvidreview/cmd/web/handlers/api/progress_api"
	"thirdcoast.systems/openvidreview/cmd/web/handlers/api/review_api"
	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/cmd/web/handlers/upload"
	staticpkg "thirdcoast.systems/openvidreview/cmd/web/internal/web/utils/static"
	"thirdcoast.systems/openvidreview/internal/ingest"
	"thirdcoast.systems/openvidreview/internal/progress"
	"thirdcoast.systems/openvidreview/pkg/assetstore"
	"thirdcoast.systems/openvidreview/static"
)

// Dependencies are the collaborators the HTTP surface is built on.
type Dependencies struct {
	SessionManager *auth.SessionManager
	Pipeline       *ingest.Pipeline
	Hub            *progress.Hub
	Reviews        review_api.ReviewStore
	Comments       comment_api.CommentStore
	// Deleter removes remote assets of deleted reviews. May be nil.
	Deleter        assetstore.Deleter
	MaxUploadBytes int64
}

type Webserver struct {
	*echo.Echo
	deps        Dependencies
	staticCache *staticpkg.StaticCache
}

func NewWebserver(deps Dependencies) (*Webserver, error) {
	e := echo.New()

	staticCache, err := staticpkg.NewStaticCache(static.FS)
	if err != nil {
		return nil, err
	}

	webserver := &Webserver{
		Echo:        e,
		deps:        deps,
		staticCache: staticCache,
	}

	if err = webserver.registerRoutes(); err != nil {
		return nil, err
	}

	if err = webserver.setupMiddleware(); err != nil {
		return nil, err
	}

	return webserver, nil
}

// Long-lived push connections are neither compressed nor access logged.
func isStreamPath(path string) bool {
	switch path {
	case "/ws/progress", "/upload/progress/stream":
		return true
	default:
		return false
	}
}

func (s *Webserver) setupMiddleware() error {
	s.HideBanner = true
	s.HidePort = true
	s.HTTPErrorHandler = common.HTTPErrorHandler

	// /upload enforces its own, much larger limit.
	s.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/upload"
		},
		Limit: "2M",
	}))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return isStreamPath(c.Path()) || strings.HasPrefix(c.Request().URL.Path, "/metrics")
		},
		Level: 5,
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return isStreamPath(c.Path())
		},
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))

	return nil
}

func (s *Webserver) registerRoutes() error {
	d := s.deps

	uploadGroup := s.Group("/upload")
	uploadGroup.POST("", upload.HandleUpload(d.Pipeline, d.Hub, d.SessionManager, d.MaxUploadBytes))
	uploadGroup.POST("/checkReviewName", upload.HandleCheckReviewName(d.Pipeline))
	uploadGroup.GET("/test", upload.HandleTest())
	uploadGroup.GET("/progress/stream", progress_api.HandleStream(d.Hub, d.SessionManager))

	s.GET("/ws/progress", progress_api.HandleWebsocket(d.Hub, d.SessionManager))

	reviewGroup := s.Group("/reviews")
	reviewGroup.GET("/all", review_api.HandleList(d.Reviews))
	reviewGroup.POST("/access", review_api.HandleAccess(d.Reviews))
	reviewGroup.PUT("/:id", review_api.HandleUpdate(d.Reviews))
	reviewGroup.DELETE("/:id", review_api.HandleDelete(d.Reviews, d.Deleter))

	s.GET("/colors", comment_api.HandleColors(d.Comments))
	commentGroup := s.Group("/comments")
	commentGroup.GET("/:videoId", comment_api.HandleList(d.Comments))
	commentGroup.POST("", comment_api.HandleCreate(d.Comments))
	commentGroup.PUT("/:id/done", comment_api.HandleSetDone(d.Comments))
	commentGroup.DELETE("/:id", comment_api.HandleDelete(d.Comments))

	// Health check
	s.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	s.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Static file serving
	s.GET("/static/*", s.staticCache.ServeStaticFile("/static/"))

	s.GET("/", upload.HandlePage(d.SessionManager))

	return nil
}
