/*
Package api exposes a thin HTTP surface for operating a running metaindex
process: /healthz, /readyz, /metrics, and /records for local inspection
of the last instant's routed output. It is not the query engine binding
spec.md §1 excludes — nothing in the indexing algorithm consults it, and
it exists purely as a development/operational convenience for the `serve`
CLI subcommand.

It is adapted from cuemby-warren's pkg/api/health.go: same plain
net/http.ServeMux, the same Start(addr)/Handler() shape, and the same
http.Server timeout defaults. Dropped cuemby-warren's server.go (the
1500-line gRPC cluster API: services, nodes, secrets, volumes) and
interceptor.go (a read-only gRPC method allowlist for a Unix-socket
listener) — metaindex has no gRPC surface and no cluster to administer,
just one process indexing one table.
*/
package api
