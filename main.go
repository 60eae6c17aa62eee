package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HebleV/putmeonmap/internal/config"
	"github.com/HebleV/putmeonmap/internal/events"
	"github.com/HebleV/putmeonmap/internal/geocode"
	"github.com/HebleV/putmeonmap/internal/graceful"
	"github.com/HebleV/putmeonmap/internal/handler"
	"github.com/HebleV/putmeonmap/internal/logging"
	"github.com/HebleV/putmeonmap/internal/places"
	"github.com/HebleV/putmeonmap/internal/repository"
	"github.com/HebleV/putmeonmap/internal/router"
	"github.com/HebleV/putmeonmap/internal/service"
	"github.com/HebleV/putmeonmap/internal/storage"
)

var (
	cfg        *config.Config
	logger     *zap.Logger
	closeLog   func()
	tokenEmail string
)

var rootCmd = &cobra.Command{
	Use:   "putmeonmap",
	Short: "Map-based place suggestion service",
	Long: `putmeonmap serves a map form where users drop a pin, geocode an address
and suggest a place. Suggestions are logged to disk and, outside mock mode,
forwarded to the Google Places API.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		var err error
		logger, closeLog, err = logging.New(cfg.LogLevel, cfg.GelfAddr)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			closeLog()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an admin token for the submission listing",
	Long: `Mints a bearer token signed with JWT_SECRET. Use it as
"Authorization: Bearer <token>" against GET /submissions when auth is on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.AuthEnabled() {
			return errors.New("JWT_SECRET is not set; the submission listing is public")
		}
		email := tokenEmail
		if email == "" {
			email = cfg.AdminEmail
		}
		svc, err := service.NewAuthService(cfg.AdminEmail, "", cfg.JWTSecret)
		if err != nil {
			return err
		}
		res, err := svc.Issue(email)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "subject of the token (defaults to ADMIN_EMAIL)")
	rootCmd.AddCommand(serveCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := graceful.Context(parent, logger)
	defer cancel()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// Repositories
	subRepo := repository.NewSubmissionRepo(cfg.SubmissionsDir, logger)
	if err := subRepo.EnsureDir(); err != nil {
		return fmt.Errorf("create submissions dir: %w", err)
	}

	// Optional side channels
	var opts []service.Option
	if cfg.KafkaBroker != "" {
		pub := events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer pub.Close()
		opts = append(opts, service.WithPublisher(pub))
		logger.Info("publishing submission events", zap.String("broker", cfg.KafkaBroker), zap.String("topic", cfg.KafkaTopic))
	}
	if cfg.MinioEndpoint != "" {
		mirror, err := storage.NewMirror(storage.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
		})
		if err != nil {
			return err
		}
		if err := mirror.EnsureBucket(ctx); err != nil {
			logger.Warn("could not ensure mirror bucket", zap.String("bucket", cfg.MinioBucket), zap.Error(err))
		}
		opts = append(opts, service.WithMirror(mirror))
		logger.Info("mirroring submissions", zap.String("endpoint", cfg.MinioEndpoint), zap.String("bucket", cfg.MinioBucket))
	}

	geocoder, err := newGeocoder(httpClient)
	if err != nil {
		return err
	}

	// Services
	placesClient := places.NewClient(cfg.PlacesURL, cfg.MapsAPIKey, httpClient)
	subSvc := service.NewSubmissionService(subRepo, placesClient, cfg.MockMode(), logger, opts...)

	// Handlers
	opt := router.Options{
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
		SubH:      handler.NewSubmissionHandler(subSvc, logger),
		GeoH:      handler.NewGeocodeHandler(geocoder, logger),
	}
	if cfg.AuthEnabled() {
		authSvc, err := service.NewAuthService(cfg.AdminEmail, cfg.AdminPass, cfg.JWTSecret)
		if err != nil {
			return err
		}
		opt.AuthH = handler.NewAuthHandler(authSvc)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(opt),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running",
			zap.String("mode", cfg.Mode),
			zap.String("addr", cfg.HTTPAddr),
			zap.String("submissionsDir", cfg.SubmissionsDir),
			zap.Bool("mockPlacesAPI", cfg.MockMode()),
			zap.Bool("auth", cfg.AuthEnabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newGeocoder(httpClient *http.Client) (geocode.Geocoder, error) {
	switch cfg.Geocoder {
	case "google":
		return geocode.NewGoogle(cfg.MapsAPIKey, "", httpClient)
	case "nominatim", "":
		return geocode.NewNominatim(cfg.NominatimURL, cfg.UserAgent, httpClient), nil
	}
	return nil, fmt.Errorf("unknown GEOCODER %q (want nominatim or google)", cfg.Geocoder)
}
