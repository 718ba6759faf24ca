package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the spatial query cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache entry count and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		if logger == nil {
			initLogging()
		}

		svc, cleanup, err := buildService()
		if err != nil {
			return err
		}
		defer cleanup()

		info := svc.CacheInfo(cmd.Context())
		fmt.Printf("entries: %d\nsize: %d bytes\n", info.Entries, info.TotalSize)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached query results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if logger == nil {
			initLogging()
		}

		svc, cleanup, err := buildService()
		if err != nil {
			return err
		}
		defer cleanup()

		svc.ClearCache(cmd.Context())
		logger.Info("cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
