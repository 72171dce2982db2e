package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tablemeta/metaindex/pkg/config"
	"github.com/tablemeta/metaindex/pkg/log"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "metaindex",
	Short:   "metaindex - metadata table indexing for a Hudi-style table",
	Long:    `metaindex applies commit/clean/rollback/restore actions to a table's metadata index, without attaching a query engine.`,
	Version: Version,
}

var settings *config.Settings

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("metaindex version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("table", ".", "Table base path")
	rootCmd.PersistentFlags().String("metadata-path", "", "Metadata table path (default: <table>/.index_meta)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", true, "Output logs in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Explicit path to a metaindex.yaml config file")

	cobra.OnInitialize(initSettings)
}

// initSettings loads config.Settings once per invocation and binds the
// root's persistent flags on top, matching the precedence file → env →
// flags the AMBIENT STACK requires.
func initSettings() {
	v := viper.New()
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	loaded, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	settings = loaded

	if table, _ := rootCmd.PersistentFlags().GetString("table"); table != "" && table != "." {
		settings.TableBasePath = table
	}
	if metaPath, _ := rootCmd.PersistentFlags().GetString("metadata-path"); metaPath != "" {
		settings.MetadataTablePath = metaPath
	}
	if level, _ := rootCmd.PersistentFlags().GetString("log-level"); level != "" {
		settings.LogLevel = level
	}
	if json, _ := rootCmd.PersistentFlags().GetBool("log-json"); rootCmd.PersistentFlags().Changed("log-json") {
		settings.LogJSON = json
	}

	log.Init(settings.LogConfig())
}
