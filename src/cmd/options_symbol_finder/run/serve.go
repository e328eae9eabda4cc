package run

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/options-symbol-finder/src/config"
	"github.com/jiaming2012/options-symbol-finder/src/finder"
	"github.com/jiaming2012/options-symbol-finder/src/models"
	"github.com/jiaming2012/options-symbol-finder/src/router"
	"github.com/jiaming2012/options-symbol-finder/src/scheduler"
)

// Serve runs the http api until ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config, f *finder.Finder) error {
	symbols := models.NewStockSymbols(cfg.Symbols)
	cache := &finder.BatchCache{}

	if cfg.Server.RefreshSchedule != "" {
		s := scheduler.New()
		job := scheduler.NewRefreshJob(ctx, f, cache, symbols, cfg.MinDaysToExpiration)
		if err := s.AddJob(cfg.Server.RefreshSchedule, job); err != nil {
			return fmt.Errorf("Serve: %w", err)
		}

		go func() {
			if err := s.RunNow(job); err != nil {
				log.Warnf("Serve: initial refresh failed: %v", err)
			}
		}()

		s.Start()
		defer s.Stop()
	}

	srv := &http.Server{
		Handler:           router.NewRouter(router.NewHandler(f, cache, symbols, cfg.MinDaysToExpiration)),
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on :%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("Serve: failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("Serve: failed to shut down: %w", err)
	}

	log.Info("server gracefully stopped")

	return nil
}
