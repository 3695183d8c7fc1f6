package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aheeb/transcriptor/internal/api"
	"github.com/aheeb/transcriptor/internal/database"
	"github.com/aheeb/transcriptor/internal/media"
	"github.com/aheeb/transcriptor/internal/secret"
	"github.com/aheeb/transcriptor/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the captioning web server",
	Long: `Start the HTTP server that powers the captioning workflow.

Configuration comes from the environment (a .env file is loaded if
present):

  PORT                      Listen port (default 8080)
  DATA_DIR                  Directory for uploads, renders and the database (default ./data)
  DB_PATH                   SQLite database path (default DATA_DIR/transcriptor.db)
  MAX_UPLOAD_SIZE_MB        Upload size limit in megabytes (default 500)
  TRANSCRIPTOR_SECRET_KEY   Passphrase encrypting stored API keys (required)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warnw("failed to load .env file", "error", err)
	}

	port := envOr("PORT", "8080")
	dataDir := envOr("DATA_DIR", "./data")
	dbPath := envOr("DB_PATH", filepath.Join(dataDir, "transcriptor.db"))

	maxUploadMB, err := strconv.ParseInt(envOr("MAX_UPLOAD_SIZE_MB", "500"), 10, 64)
	if err != nil || maxUploadMB <= 0 {
		return fmt.Errorf("invalid MAX_UPLOAD_SIZE_MB")
	}

	passphrase := os.Getenv("TRANSCRIPTOR_SECRET_KEY")
	if passphrase == "" {
		return fmt.Errorf("TRANSCRIPTOR_SECRET_KEY must be set to encrypt stored API keys")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := database.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	store, err := storage.NewLocalStorage(filepath.Join(dataDir, "uploads"))
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	secrets, err := secret.NewStore(filepath.Join(dataDir, "secrets"), passphrase)
	if err != nil {
		return fmt.Errorf("failed to initialize secret store: %w", err)
	}

	app := &api.App{
		Logger:        logger,
		Storage:       store,
		Videos:        database.NewVideoRepository(db),
		Captions:      database.NewCaptionRepository(db),
		Jobs:          database.NewRenderRepository(db),
		Media:         media.NewProcessor(),
		Secrets:       secrets,
		MaxUploadSize: maxUploadMB << 20,
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      api.NewRouter(app),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 10 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("server listening", "addr", server.Addr, "data_dir", dataDir)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
