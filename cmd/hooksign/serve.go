package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"hooksign/internal/audit"
	"hooksign/internal/profile"
	"hooksign/internal/server"
	"hooksign/pkg/fileutil"

	"github.com/spf13/cobra"
)

var (
	configFile string
	logFile    string
	dbPath     string
	host       string
	port       int
	testMode   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the signing service",
	Long: `Start the HTTP signing service.

Clients POST a raw payload to /sign/{profile} and receive its HMAC-SHA256
signature under that profile's secret. The service only generates
signatures; it never verifies them.`,
	RunE: runServe,
}

func init() {
	// Flags for serve command
	serveCmd.Flags().StringVarP(&configFile, "config", "c", getEnvOrDefault("HOOKSIGN_CONFIG_FILE", ""), "Path to profiles.yaml configuration file")
	serveCmd.Flags().StringVar(&logFile, "log", getEnvOrDefault("HOOKSIGN_LOG_FILE", "./hooksign.log"), "Path to log file")
	serveCmd.Flags().StringVar(&dbPath, "db", getEnvOrDefault("HOOKSIGN_DB_PATH", "./hooksign.db"), "Path to SQLite audit database")
	serveCmd.Flags().StringVar(&host, "host", getEnvOrDefault("HOOKSIGN_HOST", "127.0.0.1"), "Host to bind to")
	serveCmd.Flags().IntVarP(&port, "port", "p", getEnvOrDefaultInt("HOOKSIGN_PORT", 5000), "Port to listen on")
	serveCmd.Flags().BoolVar(&testMode, "test-mode", os.Getenv("HOOKSIGN_SKIP_AUDIT") == "1", "Enable test mode (no audit log, no rate limiting)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Determine config file path
	if configFile == "" {
		// Search in default locations using pkg/fileutil
		searchPaths := fileutil.DefaultConfigPaths("profiles.yaml")
		configFile = fileutil.SearchPathsOptional(searchPaths)
		if configFile == "" {
			fmt.Fprintf(os.Stderr, "Error: No configuration file found in default locations:\n")
			for _, path := range searchPaths {
				fmt.Fprintf(os.Stderr, "  - %s\n", path)
			}
			fmt.Fprintf(os.Stderr, "Use --config flag to specify a custom location\n")
			return fmt.Errorf("configuration file not found")
		}
	}

	// Set up logging
	logger, logFileHandle, err := setupLogging(logFile)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logFileHandle.Close()

	logger.Info("Starting hooksign")

	// Load configuration
	logger.Info("Loading configuration", "config", configFile)
	_, profiles, err := profile.LoadConfig(configFile)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Info("Configuration validated successfully", "count", len(profiles))

	// Warn if no profiles are configured
	if len(profiles) == 0 {
		logger.Warn("No profiles configured in config file", "config", configFile)
		logger.Warn("The server will start but won't sign anything until profiles are added")
	}

	for name, prof := range profiles {
		if prof.WeakSecret {
			logger.Warn("Profile has a weak secret", "profile", name)
		}
	}

	// Create profile registry
	registry := profile.NewRegistry(profiles)

	// Initialize audit database
	var auditLog *audit.Log
	if !testMode {
		logger.Info("Initializing audit database", "db", dbPath)
		auditLog, err = audit.NewLog(dbPath)
		if err != nil {
			logger.Error("Failed to initialize audit database", "error", err)
			return fmt.Errorf("failed to initialize audit database: %w", err)
		}
		defer auditLog.Close()
	}

	// Create and start server
	srv := server.NewServer(registry, auditLog, logger, testMode)

	logger.Info("Starting HTTP server", "host", host, "port", port)
	if err := srv.Start(host, port); err != nil {
		logger.Error("Server failed", "error", err)
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// setupLogging configures slog for file logging
// Returns both the logger and the file handle (caller must close the file)
func setupLogging(logPath string) (*slog.Logger, *os.File, error) {
	// Create log directory if needed
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open log file with secure permissions
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Create multi-writer to log to both file and console
	multiWriter := io.MultiWriter(os.Stdout, file)

	// Create JSON handler for structured logging
	handler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	logger := slog.New(handler)

	return logger, file, nil
}
