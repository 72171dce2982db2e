/*
Package config loads metaindex's runtime settings and IndexingConfig
from a YAML file, environment variables, and CLI flags, via
github.com/spf13/viper.

It follows the precedence pattern of the retrieved BeadsLog CLI's
internal/config package: project config file (metaindex.yaml in the
working directory or its nearest parent that has one) → user config directory
(~/.config/metaindex/config.yaml) → environment variables (METAINDEX_*)
→ explicit cobra flags, highest precedence last. Unlike BeadsLog's
config, which is a package-level viper singleton read through getters,
metaindex's cmd/metaindex subcommands each need their own Settings
value (e.g. `index` and `serve` point at different table paths in the
same process during tests), so Load returns a plain *Settings struct
instead of a global.
*/
package config
