package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/folium/version"
)

var (
	cfgFile string
	homeDir string
)

var rootCmd = &cobra.Command{
	Use:   "folium",
	Short: "A lazily-paginating e-reader engine",
	Long: `folium turns a linear document into a stable, indexable sequence of
fixed-size pages on demand, caching results per (book, layout) so reopening
a book at an unchanged layout is near-instant.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.folium/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "folium home directory (default: ~/.folium)",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(paginateCmd)
}
