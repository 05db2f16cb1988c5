package search

import (
	"context"

	"github.com/kailas-cloud/pointfield/internal/domain/query"
)

// Backend names reported by Router.
const (
	BackendLocal  = "memory"
	BackendRemote = "redis"
)

// Router sends queries the remote executor supports to it and everything else
// to the local one.
type Router struct {
	local  Executor
	remote RemoteExecutor
}

// NewRouter creates a Router. remote can be nil.
func NewRouter(local Executor, remote RemoteExecutor) *Router {
	return &Router{local: local, remote: remote}
}

// Route picks the executor for q and names its backend.
func (r *Router) Route(q query.Query) (Executor, string) {
	if r.remote != nil && r.remote.Supports(q) {
		return r.remote, BackendRemote
	}
	return r.local, BackendLocal
}

// Execute runs q on the executor chosen by Route.
func (r *Router) Execute(ctx context.Context, q query.Query) ([]string, error) {
	exec, _ := r.Route(q)
	return exec.Execute(ctx, q)
}
