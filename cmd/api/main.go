package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"VitalTrack_V1.0/internal/analysis"
	"VitalTrack_V1.0/internal/auth"
	"VitalTrack_V1.0/internal/database"
	"VitalTrack_V1.0/internal/groqservice"
	"VitalTrack_V1.0/internal/server"
	"VitalTrack_V1.0/internal/user"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Initialize the database connection first; NewService also bootstraps
	// the schema.
	dbService := database.NewService()
	defer dbService.Close()

	queries := dbService.Queries()

	if err := auth.InitAuth(queries); err != nil {
		log.Fatal().Err(err).Msg("Could not initialize authentication")
	}

	pipeline := analysis.New(queries, groqservice.NewClientFromEnv())
	user.InitUserPackage(queries, pipeline)

	apiServer := server.NewServer(dbService)

	// Signal-aware root context: Ctrl+C or SIGTERM cancels everything below.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", apiServer.Addr).Msg("Starting HTTP server")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := server.StartSystemStatsBroadcaster(gCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")

		// The server has 5 seconds to finish the requests it is currently
		// handling.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server exited with error")
		return
	}
	log.Info().Msg("Graceful shutdown complete")
}
