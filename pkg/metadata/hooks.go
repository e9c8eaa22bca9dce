package metadata

import (
	"context"

	"github.com/pkgscout/pkgscout/pkg/store"
)

// Hooks receives events from package refreshes. Implementations must be safe
// for concurrent use; the no-op default keeps the aggregator free of any
// observability backend.
type Hooks interface {
	// OnRefreshStart fires before any phase of a refresh runs.
	OnRefreshStart(ctx context.Context, p *store.Package)

	// OnRefreshComplete fires after all phases, with their outcomes.
	OnRefreshComplete(ctx context.Context, p *store.Package, result Result)

	// OnCommitsFetched fires after a repository commit fetch, with the
	// number of commits newly recorded.
	OnCommitsFetched(ctx context.Context, p *store.Package, created int)
}

// NoopHooks discards all events.
type NoopHooks struct{}

func (NoopHooks) OnRefreshStart(context.Context, *store.Package) {}

func (NoopHooks) OnRefreshComplete(context.Context, *store.Package, Result) {}

func (NoopHooks) OnCommitsFetched(context.Context, *store.Package, int) {}
