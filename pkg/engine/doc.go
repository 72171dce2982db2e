/*
Package engine implements the EngineContext capability spec.md §5/§6
requires: parallelize/map/flat_map/union over a bounded number of
goroutines, so the same builder code runs unchanged against a
thread-pool-backed engine in production and a trivial sequential engine
in tests (spec.md §9 re-architecture note).

# Core Components

Context is the capability interface. Sequential runs every task on the
calling goroutine — deterministic, easy to assert against in unit tests.
Pool runs tasks through golang.org/x/sync/errgroup with a bounded number
of concurrent goroutines, honoring the max(1, min(inputs, configured))
rule spec.md applies uniformly to BIB, CIB, and FL.

# Usage

	pool := engine.NewPool(8)
	sizes, err := engine.Map(context.Background(), pool, paths, func(ctx context.Context, p string) (int64, error) {
		return readSize(p)
	})
*/
package engine
