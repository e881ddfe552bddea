package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "podarr",
	Short: "Podcast archive automation",
	Long: `podarr - podcast archive automation

Discovers episodes on the configured series' archive pages, resolves
their download links, and keeps the local library in sync. Safe to
interrupt and re-run; completed work is never repeated.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "podarr", "config.toml")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Path to config file")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("podarr {{.Version}}\n")
}
