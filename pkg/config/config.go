package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/tablemeta/metaindex/pkg/log"
	"github.com/tablemeta/metaindex/pkg/types"
)

// Settings is everything a metaindex process needs beyond the pure
// indexing algorithm: where the table and its metadata live, where to
// bind the HTTP surface, and how to log.
type Settings struct {
	// TableBasePath is the root of the data table being indexed.
	TableBasePath string `mapstructure:"table_base_path"`

	// MetadataTablePath is where the timeline store's bbolt file and
	// routed records live, e.g. "<table_base_path>/.index_meta".
	MetadataTablePath string `mapstructure:"metadata_table_path"`

	// BindAddr is the HTTP surface's listen address for `serve`.
	BindAddr string `mapstructure:"bind_addr"`

	LogLevel  string `mapstructure:"log_level"`
	LogJSON   bool   `mapstructure:"log_json"`
	LogFile   string `mapstructure:"log_file"`

	Indexing IndexingSettings `mapstructure:"indexing"`
}

// IndexingSettings mirrors types.IndexingConfig with mapstructure tags;
// viper cannot populate types.IndexingConfig directly since its field
// names follow this module's own convention, not a YAML key convention.
type IndexingSettings struct {
	EnabledPartitionTypes          []string `mapstructure:"enabled_partition_types"`
	BloomFilterParallelism         int      `mapstructure:"bloom_filter_parallelism"`
	ColumnStatsParallelism         int      `mapstructure:"column_stats_parallelism"`
	BootstrapFSListingParallelism  int      `mapstructure:"bootstrap_fs_listing_parallelism"`
	FSListingMaxListingParallelism int      `mapstructure:"fs_listing_max_listing_parallelism"`
	AllColumnsEnabled              bool     `mapstructure:"all_columns_enabled"`
	PopulateMetaFields             bool     `mapstructure:"populate_meta_fields"`
	DatePartitionedBootstrap       bool     `mapstructure:"date_partitioned_bootstrap"`
	RecordKeyColumns               []string `mapstructure:"record_key_columns"`
}

// IndexingConfig converts to the domain type the Coordinator consumes.
func (s IndexingSettings) IndexingConfig() types.IndexingConfig {
	types_ := make([]types.MetadataPartitionType, 0, len(s.EnabledPartitionTypes))
	for _, t := range s.EnabledPartitionTypes {
		types_ = append(types_, types.MetadataPartitionType(t))
	}
	return types.IndexingConfig{
		EnabledPartitionTypes:          types_,
		BloomFilterParallelism:         s.BloomFilterParallelism,
		ColumnStatsParallelism:         s.ColumnStatsParallelism,
		BootstrapFSListingParallelism:  s.BootstrapFSListingParallelism,
		FSListingMaxListingParallelism: s.FSListingMaxListingParallelism,
		AllColumnsEnabled:              s.AllColumnsEnabled,
		PopulateMetaFields:             s.PopulateMetaFields,
		DatePartitionedBootstrap:       s.DatePartitionedBootstrap,
		RecordKeyColumns:               s.RecordKeyColumns,
	}
}

// LogConfig converts to the pkg/log.Config every CLI command initializes
// the global logger with.
func (s Settings) LogConfig() log.Config {
	return log.Config{
		Level:      log.Level(s.LogLevel),
		JSONOutput: s.LogJSON,
		RotateFile: s.LogFile,
	}
}

// Load reads Settings following project file → user config dir →
// environment → flags precedence (flags are applied by the caller, which
// overrides fields of the returned Settings). A config file already set on
// v via SetConfigFile is read instead of searching for one.
func Load(v *viper.Viper) (*Settings, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetConfigType("yaml")
	configFileSet := v.ConfigFileUsed() != ""
	if !configFileSet {
		configFileSet = locateConfigFile(v)
	}

	v.SetEnvPrefix("METAINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("table_base_path", ".")
	v.SetDefault("metadata_table_path", "")
	v.SetDefault("bind_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", true)
	v.SetDefault("log_file", "")
	v.SetDefault("indexing.enabled_partition_types", []string{"files", "column_stats", "bloom_filters"})
	v.SetDefault("indexing.bloom_filter_parallelism", 4)
	v.SetDefault("indexing.column_stats_parallelism", 4)
	v.SetDefault("indexing.bootstrap_fs_listing_parallelism", 200)
	v.SetDefault("indexing.fs_listing_max_listing_parallelism", 1500)
	v.SetDefault("indexing.all_columns_enabled", false)
	v.SetDefault("indexing.populate_meta_fields", false)
	v.SetDefault("indexing.date_partitioned_bootstrap", false)
	v.SetDefault("indexing.record_key_columns", []string{})

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return &settings, nil
}

// locateConfigFile implements the project file → user config dir
// precedence, returning whether a file was found and registered.
func locateConfigFile(v *viper.Viper) bool {
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, "metaindex.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				return true
			}
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		configPath := filepath.Join(configDir, "metaindex", "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			return true
		}
	}

	return false
}
