package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Context is the EngineContext capability from spec.md §5/§6: a way to
// run n independent tasks with engine-chosen parallelism, shared by every
// builder so swapping a sequential engine in for tests changes nothing
// about builder logic.
type Context interface {
	// Parallelism returns the degree of parallelism this context will
	// apply to a batch of n inputs.
	Parallelism(n int) int

	// Run executes fn(i) for i in [0, n), stopping and returning the
	// first error encountered. Cancelling ctx aborts in-flight and
	// not-yet-started tasks; partial results are the caller's to discard
	// (spec.md §5, "partial results are discarded").
	Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
}

// Sequential runs every task on the calling goroutine. Used by tests and
// by the CLI when the configured builder parallelism is 1 or less.
type Sequential struct{}

// NewSequential returns a trivial, single-goroutine EngineContext.
func NewSequential() Sequential {
	return Sequential{}
}

func (Sequential) Parallelism(n int) int {
	if n <= 0 {
		return 0
	}
	return 1
}

func (Sequential) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// Pool runs tasks through a bounded-size goroutine pool. Configured is
// the caller's parallelism budget (e.g. IndexingConfig.BloomFilterParallelism);
// the effective parallelism for a given batch is max(1, min(n, Configured)),
// matching spec.md §4.4/§4.7/§5.
type Pool struct {
	Configured int
}

// NewPool returns a worker-pool EngineContext with the given configured
// parallelism budget.
func NewPool(configured int) Pool {
	return Pool{Configured: configured}
}

func (p Pool) Parallelism(n int) int {
	if n <= 0 {
		return 0
	}
	limit := p.Configured
	if limit <= 0 {
		limit = 1
	}
	if limit > n {
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

func (p Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Parallelism(n))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// Map applies fn to every item with ec's parallelism, preserving input
// order in the result slice. The first error returned by fn aborts the
// remaining tasks and is returned to the caller.
func Map[T, R any](ctx context.Context, ec Context, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	err := ec.Run(ctx, len(items), func(taskCtx context.Context, i int) error {
		r, err := fn(taskCtx, items[i])
		if err != nil {
			return err
		}
		results[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// FlatMap applies fn to every item, concatenating the per-item result
// slices in input order.
func FlatMap[T, R any](ctx context.Context, ec Context, items []T, fn func(ctx context.Context, item T) ([]R, error)) ([]R, error) {
	perItem, err := Map(ctx, ec, items, fn)
	if err != nil {
		return nil, err
	}
	return Union(perItem...), nil
}

// Union concatenates any number of slices into one. A pure, non-blocking
// combinator (spec.md §5: "pure transformations must not block").
func Union[T any](slices ...[]T) []T {
	total := 0
	for _, s := range slices {
		total += len(s)
	}
	out := make([]T, 0, total)
	for _, s := range slices {
		out = append(out, s...)
	}
	return out
}
