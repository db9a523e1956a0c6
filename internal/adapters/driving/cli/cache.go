package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the compile-result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show compile-result cache statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		c, err := openCache(cfg)
		if err != nil {
			return err
		}
		if c == nil {
			cmd.Println("Cache is disabled.")
			return nil
		}
		defer c.Close()

		stats, err := c.Stats(ctx)
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		cmd.Printf("Entries: %d\n", stats.Entries)
		cmd.Printf("Size:    %d bytes\n", stats.Bytes)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached compile results",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		c, err := openCache(cfg)
		if err != nil {
			return err
		}
		if c == nil {
			cmd.Println("Cache is disabled.")
			return nil
		}
		defer c.Close()

		if err := c.Clear(ctx); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		cmd.Println("Cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
