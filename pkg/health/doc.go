/*
Package health provides liveness probing for metaindex's own dependencies:
the embedded timeline database and the table's base-path filesystem.

It is adapted from cuemby-warren's pkg/health, which probed containers
over HTTP, TCP, and exec to drive Warren's reconciler. metaindex has no
containers to probe — its only external dependencies are the timeline
store and the capability.FileSystem it reads tables through — so the
container-specific checkers have no target here. What carries over is the
generic part: the Checker interface, Result, and the Status state machine
that tracks consecutive failures/successes and start-period grace, now
pointed at TimelineChecker and FileSystemChecker.

The `doctor` CLI subcommand runs every registered Checker once and reports
the aggregate Result set; a long-running server can instead poll them on
Config.Interval and feed Status.Healthy into pkg/metrics/health.go's
readiness registry.
*/
package health
