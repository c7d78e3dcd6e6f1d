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
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"vehicle-repair-service/internal/auth"
	"vehicle-repair-service/internal/config"
	"vehicle-repair-service/internal/db"
	httphandler "vehicle-repair-service/internal/http"
	"vehicle-repair-service/internal/http/middleware"
	"vehicle-repair-service/internal/logger"
	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/notify"
	"vehicle-repair-service/internal/repository"
	"vehicle-repair-service/internal/seed"
	"vehicle-repair-service/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vehicle-repair-service",
		Short:         "Vehicle service shop bookings, inspections and repairs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
	}
	cmd.AddCommand(serveCmd(), migrateCmd(), seedCmd(), tokenCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			if _, err := db.New(cfg, log); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load catalog, opening hours and checklist templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			database, err := db.New(cfg, log)
			if err != nil {
				return err
			}

			var catalog *seed.Catalog
			if file != "" {
				catalog, err = seed.LoadFile(file)
			} else {
				catalog, err = seed.Default()
			}
			if err != nil {
				return err
			}
			_, err = seed.Apply(cmd.Context(), repository.New(database), catalog, log)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (defaults to the bundled catalog)")
	return cmd
}

// tokenCmd mints a bearer token for local testing.
func tokenCmd() *cobra.Command {
	var (
		userID     string
		role       string
		customerID string
		ttl        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.Environment == "production" {
				return errors.New("token issuing is disabled in production")
			}

			claims := &auth.Claims{
				SessionID: uuid.New(),
				UserID:    uuid.New(),
				Role:      model.UserRole(role),
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
					IssuedAt:  jwt.NewNumericDate(time.Now()),
				},
			}
			if userID != "" {
				if claims.UserID, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
			}
			if customerID != "" {
				id, err := uuid.Parse(customerID)
				if err != nil {
					return fmt.Errorf("invalid --customer: %w", err)
				}
				claims.CustomerID = &id
			}

			token, err := auth.NewParser(cfg.Auth.AccessSecret).Sign(claims)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (random when empty)")
	cmd.Flags().StringVar(&role, "role", string(model.UserRoleServiceManager), "ADMIN, SERVICE_MANAGER, TECHNICIAN or CUSTOMER")
	cmd.Flags().StringVar(&customerID, "customer", "", "customer id for CUSTOMER tokens")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}

func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config error: %w", err)
	}
	return cfg, logger.New(cfg.Environment), nil
}

func serve(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	database, err := db.New(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	repos := repository.New(database)

	var notifier notify.Notifier = notify.NewLogNotifier(log)
	if cfg.NATS.URL != "" {
		conn, err := notify.Connect(cfg.NATS.URL)
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to NATS")
			return err
		}
		defer conn.Drain()
		notifier = notify.NewNATSNotifier(conn, cfg.NATS.SubjectPrefix)
		log.Info().Str("url", cfg.NATS.URL).Msg("publishing notifications to NATS")
	}

	loc := cfg.Shop.Location
	services := httphandler.Services{
		Bookings:    service.NewBookingService(repos, loc, cfg.Shop.PortalPageSize, log),
		Slots:       service.NewSlotService(repos, loc, log),
		Inspections: service.NewInspectionService(repos, notifier, loc, log),
		Repairs:     service.NewRepairService(repos, notifier, loc, log),
		Vehicles:    service.NewVehicleService(repos, loc, log),
		Catalog:     service.NewCatalogService(repos),
		Templates:   service.NewTemplateService(repos),
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(services, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), httphandler.RouterOptions{
		Environment:    cfg.Environment,
		MetricsEnabled: cfg.Metrics.Enabled,
		Ready: func(c *gin.Context) error {
			return db.HealthCheck(c.Request.Context(), database)
		},
	})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting vehicle repair service")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
