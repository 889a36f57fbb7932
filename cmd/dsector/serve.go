package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dynamicsector/dynamicsector/internal/config"
	"github.com/dynamicsector/dynamicsector/internal/logger"
	"github.com/dynamicsector/dynamicsector/internal/server"
	"github.com/dynamicsector/dynamicsector/internal/storage"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveDB   string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: config addr, 127.0.0.1:8050)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Session database path (default: config db_path)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload dashboard",
	Long: `Serve the DynamicSector dashboard.

Open the address in a browser, upload a system data table and a sector map
table, and switch between the 3D and 2D views. Uploads are kept per browser
session in a SQLite database and purged after session_ttl of inactivity.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveDB != "" {
		cfg.DBPath = serveDB
	}

	db, err := storage.OpenDB(config.ExpandTilde(cfg.DBPath))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	logger.Banner(Version)
	logger.Info("Sessions", fmt.Sprintf("Storing uploads in %s", cfg.DBPath))

	srv := server.NewServer(cfg, db)
	srv.Version = Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
