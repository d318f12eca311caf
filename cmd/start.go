package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"profile-sync/core/facet"
	"profile-sync/core/facet/collection"
	"profile-sync/core/facet/sqlstore"
	"profile-sync/core/loader"
	"profile-sync/core/logger"
	"profile-sync/core/middleware/auth"
	"profile-sync/core/middleware/rayid"
	"profile-sync/core/session"
	"profile-sync/feature/profile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "profile-sync/docs/swagger"
)

// @title Profile Sync API
// @version 1.0
// @description Contact profile synchronization between live sessions and the contact collection.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the profile sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration and Logger
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		for _, msg := range profile.ValidateConfig(cfg.Settings()) {
			logg.Warn("Configuration problem", zap.String("problem", msg))
		}

		// 2. Session Tracker
		tracker, err := session.NewRedisTracker(cfg.Session)
		if err != nil {
			return fmt.Errorf("failed to connect session tracker: %w", err)
		}
		defer tracker.Close()

		// 3. Contact Collection
		store, err := collection.Open(cfg.Settings().GetConnectionString(collection.Name))
		if err != nil {
			return fmt.Errorf("failed to open contact collection: %w", err)
		}
		defer store.Close()

		if sqlStore, ok := store.(*sqlstore.Store); ok {
			if report, err := sqlStore.CheckSchema(); err != nil {
				logg.Warn("Collection schema check failed", zap.Error(err))
			} else if !report.Matched {
				logg.Warn("Collection schema is outdated, run the migrate command",
					zap.Any("tables", report.Tables), zap.Strings("errors", report.Errors))
			}
		}

		// The probe opens its own client, except for in-memory collections which only exist in store.
		opener := collection.NewOpener(cfg.Settings()).Share(store)
		repo := facet.NewRepository(store, tracker, cfg.Session.Facets, logg)
		svc := profile.NewService(repo, tracker, opener, cfg.Settings(), logg)

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(profile.NewFeature(svc, tracker, cfg.Session.CookieName, logg))

		// RayID first so every log line is traceable
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		if cfg.Server.Docs {
			app.Get("/swagger/*", swagger.HandlerDefault)
		}

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/swagger"}}))
		if !cfg.Server.AuthEnabled() {
			logg.Warn("API key not configured, requests are not authenticated")
		}

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
