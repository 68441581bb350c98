package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/flight-demand-go/internal/api"
	"github.com/jengzang/flight-demand-go/internal/config"
	"github.com/jengzang/flight-demand-go/internal/database"
	"github.com/jengzang/flight-demand-go/internal/dataset"
	"github.com/jengzang/flight-demand-go/internal/forecast"
	"github.com/jengzang/flight-demand-go/internal/model"
	"github.com/jengzang/flight-demand-go/internal/repository"
	"github.com/jengzang/flight-demand-go/internal/service"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// Server holds the state for the HTTP server.
type Server struct {
	config    *config.Config
	router    *gin.Engine
	db        *sql.DB
	predictor model.Predictor
	logger    zerolog.Logger
	http      *http.Server
}

// New opens the booking store, loads the dataset and model, and builds the router.
func New(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Server, error) {
	db, err := database.Open(database.Config{Path: cfg.Database.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	ds, err := loadDataset(ctx, cfg, db, lgr)
	if err != nil {
		db.Close()
		return nil, err
	}

	predictor, err := model.Load(model.Config{
		Kind:      model.Kind(cfg.Model.Kind),
		Path:      cfg.Model.Path,
		PythonBin: cfg.Model.PythonBin,
		Script:    cfg.Model.Script,
		Timeout:   cfg.Model.Timeout,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	lgr.Info().Str("kind", cfg.Model.Kind).Str("path", cfg.Model.Path).Msg("Model loaded")

	s := &Server{
		config:    cfg,
		db:        db,
		predictor: predictor,
		logger:    lgr,
	}

	s.router, err = api.SetupRouter(cfg, service.NewPredictionService(ds, predictor), lgr)
	if err != nil {
		s.closeResources()
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}
	return s, nil
}

// loadDataset imports the CSV into the store when one is configured, then
// reads the completed bookings back to build the in-memory dataset.
func loadDataset(ctx context.Context, cfg *config.Config, db *sql.DB, lgr zerolog.Logger) (*forecast.Dataset, error) {
	repo := repository.NewBookingRepository(db)

	if cfg.Dataset.Path != "" {
		records, err := dataset.LoadFile(cfg.Dataset.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}
		if err := repo.ReplaceAll(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to import dataset: %w", err)
		}
		lgr.Info().Str("path", cfg.Dataset.Path).Int("rows", len(records)).Msg("Dataset imported")
	}

	completed, err := repo.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	ds := forecast.NewDataset(completed)
	lgr.Info().
		Int("completed", ds.Size()).
		Int("routes", len(ds.Routes())).
		Msg("Dataset ready")
	return ds, nil
}

// Run starts the HTTP server and blocks until it fails or the process is signalled.
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.config.Model.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closeResources()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server, then the model worker and the database.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = err
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped")
		}
	}

	s.closeResources()
	return shutdownErr
}

func (s *Server) closeResources() {
	if c, ok := s.predictor.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Model close error")
		}
	}
	s.predictor = nil

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Database close error")
		}
		s.db = nil
	}
}
