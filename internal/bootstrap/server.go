package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/talari-hunar/boxoffice/api"
	"github.com/talari-hunar/boxoffice/config"
	"github.com/talari-hunar/boxoffice/internal/hub"
	"github.com/talari-hunar/boxoffice/internal/service/coordinator"
)

// Run starts the HTTP server (REST API, SSE stream and metrics) and blocks
// until the context is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc coordinator.UseCase, h *hub.Hub, logger *logrus.Logger) error {
	router := newRouter(svc, h)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	logger.WithField("address", cfg.HTTP.Address).Info("http server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(svc coordinator.UseCase, h *hub.Hub) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	group := router.Group("/api")
	api.NewSeatHandler(svc).Register(group)
	api.NewSalesHandler(svc).Register(group)
	api.NewRealtimeHandler(h).Register(group)
	api.NewVenueHandler().Register(group)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}
