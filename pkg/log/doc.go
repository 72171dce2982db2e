/*
Package log provides structured logging for the metaindex subsystem using
zerolog.

The log package wraps zerolog to provide JSON-structured logging with
component-specific child loggers, configurable levels, and an optional
rotating file sink for the long-running serve/watch commands. All logs
include timestamps and support filtering by severity level.

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init()
  - Thread-safe for concurrent use across builders

Component Loggers:
  - WithComponent("bloom-index"), WithComponent("fs-lister"), etc.
  - WithRunID("...") scopes every line from one Coordinator run
  - WithInstant("...") scopes every line from one timeline instant

Output:
  - JSON (default) or human-readable console writer
  - Optional lumberjack-backed rotation via Config.RotateFile, sized for
    processes that run indefinitely (serve, watch) rather than one-shot
    CLI invocations

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	logger := log.WithComponent("bloom-index")
	logger.Info().Str("partition", p).Int("added", n).Msg("emitted bloom entries")

TransientIo failures (spec.md §7) are logged at Warn, never Error, since
they are expected and recovered locally by the builder that hit them.
*/
package log
