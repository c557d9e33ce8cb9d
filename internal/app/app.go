package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sgvr/sgvr/internal/auth"
	"github.com/sgvr/sgvr/internal/config"
	"github.com/sgvr/sgvr/internal/db"
	"github.com/sgvr/sgvr/internal/documents"
	"github.com/sgvr/sgvr/internal/http/api"
	"github.com/sgvr/sgvr/internal/logging"
	"github.com/sgvr/sgvr/internal/tokens"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate opens the database and applies the schema migration.
func Migrate(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Production, cfg.LogFile)

	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// Provision opens the database and runs the one-shot provisioning pass,
// logging each step outcome.
func Provision(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Production, cfg.LogFile)

	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}

	provisioner := buildProvisioner(conn, cfg)
	steps, errRun := provisioner.Run(ctx)
	for _, step := range steps {
		entry := log.WithField("action", step.Action).WithField("status", step.Status)
		if step.Detail != "" {
			entry = entry.WithField("detail", step.Detail)
		}
		entry.Info("provisioning step")
	}
	return errRun
}

// RunServer boots the HTTP server with database-backed components and shuts
// it down when the context is canceled.
func RunServer(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Production, cfg.LogFile)
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	log.WithField("dialect", db.DialectName(conn)).Info("database connected")
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	cache := auth.NewCredentialCache(cfg.RedisAddr)
	store := auth.NewCredentialStore(conn, cache)
	authenticator := auth.NewAuthenticator(store, cfg.Production)
	resolver := auth.NewResolver(conn)
	issuer := tokens.NewIssuer(conn, cache)
	registry := documents.NewRegistry(conn)

	engine := api.NewRouter(api.Deps{
		Store:         store,
		Authenticator: authenticator,
		Resolver:      resolver,
		Issuer:        issuer,
		Registry:      registry,
		Provisioner:   documents.NewProvisioner(conn, issuer, cfg.UploadRoot, cfg.DatePartitionedStorage),
		UploadRoot:    cfg.UploadRoot,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.Infof("listening on %s", cfg.ListenAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}

// buildProvisioner wires the provisioning pass from config.
func buildProvisioner(conn *gorm.DB, cfg config.Config) *documents.Provisioner {
	issuer := tokens.NewIssuer(conn, auth.NewCredentialCache(cfg.RedisAddr))
	return documents.NewProvisioner(conn, issuer, cfg.UploadRoot, cfg.DatePartitionedStorage)
}
