package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pkgscout/pkgscout/pkg/config"
)

func newCacheCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the derived-value cache",
	}
	cmd.AddCommand(newCacheClearCmd(cfgPath))
	cmd.AddCommand(newCachePathCmd(cfgPath))
	return cmd
}

func newCacheClearCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries (file backend)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != "file" {
				return fmt.Errorf("cache backend %q cannot be cleared offline", cfg.Cache.Backend)
			}

			dir := cfg.Cache.Dir
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				logger.Info("cache is empty")
				return nil
			}

			count := 0
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if !info.IsDir() {
					if err := os.Remove(path); err == nil {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Empty subdirectories left behind by the removals.
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if info.IsDir() {
					os.Remove(path)
				}
				return nil
			})

			logger.Info("cache cleared", "entries", count, "dir", dir)
			return nil
		},
	}
}

func newCachePathCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configured cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case "file":
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			case "redis":
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Addr)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Backend)
			}
			return nil
		},
	}
}
