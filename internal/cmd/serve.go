package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fxi/geodrink/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the water-point search as a JSON HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")

	if err := viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")

	svc, cleanup, err := buildService()
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(svc, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
