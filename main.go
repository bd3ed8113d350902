package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"hotel-rooms/config"
	"hotel-rooms/controllers"
	"hotel-rooms/logger"
	"hotel-rooms/routes"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hotel-rooms",
		Short:        "Room inventory and allocation service",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), resetCmd(), randomizeCmd(), seedCmd())
	root.RunE = serveCmd().RunE
	return root
}

// withApp loads configuration, wires the services and runs fn.
func withApp(fn func(ctx context.Context, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return fn(ctx, a)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  withApp(serve),
	}
}

func serve(ctx context.Context, a *app) error {
	if _, err := a.rooms.SeedIfEmpty(ctx, a.cfg.SeedRooms, a.cfg.SeedFloors); err != nil {
		logger.L.Warn("seeding failed", "err", err)
	}

	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	rc := controllers.NewRoomController(a.rooms, a.allocator, a.journal)
	router := routes.SetupRouter(rc, a.cfg.Origins())

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.cfg.BookTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("server starting", "addr", srv.Addr,
			"maxRoomsPerGuest", a.cfg.MaxRoomsPerGuest, "quota", a.cfg.QuotaCheck)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.L.Info("shutdown signal received, shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.L.Info("server stopped gracefully")
	return nil
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Mark every room free",
		RunE: withApp(func(ctx context.Context, a *app) error {
			n, err := a.allocator.Reset(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("reset %d rooms\n", n)
			return nil
		}),
	}
}

func randomizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "randomize",
		Short: "Write random occupancy onto the inventory (test fixtures)",
		RunE: withApp(func(ctx context.Context, a *app) error {
			rooms, err := a.allocator.Randomize(ctx)
			if err != nil {
				return err
			}
			occupied := 0
			for _, r := range rooms {
				if r.IsOccupied {
					occupied++
				}
			}
			fmt.Printf("%d rooms, %d occupied\n", len(rooms), occupied)
			return nil
		}),
	}
}

func seedCmd() *cobra.Command {
	var count, floors int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create rooms when the inventory is empty",
		RunE: withApp(func(ctx context.Context, a *app) error {
			n, err := a.rooms.SeedIfEmpty(ctx, count, floors)
			if err != nil {
				return err
			}
			fmt.Printf("seeded %d rooms\n", n)
			return nil
		}),
	}
	cmd.Flags().IntVar(&count, "count", 20, "number of rooms to create")
	cmd.Flags().IntVar(&floors, "floors", 5, "floors to spread rooms across")
	return cmd
}
