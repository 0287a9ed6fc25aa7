// Package backoff implements the per-resource Fibonacci retry schedule used
// for transient failures (§4.8): 1m, 1m, 2m, 3m, 5m, 8m, ... capped, tracked
// per resource identity and reset on success.
package backoff

import (
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/types"
)

// fibonacci advances a single Fibonacci sequence in minutes, capped at max.
// The sequence is computed in whole minutes (aligning with GitOps tool
// convention) and only converted to a time.Duration on return.
type fibonacci struct {
	minMinutes     int64
	prevMinutes    int64
	currentMinutes int64
	maxMinutes     int64
}

func newFibonacci(minMinutes, maxMinutes int64) *fibonacci {
	return &fibonacci{minMinutes: minMinutes, currentMinutes: minMinutes, maxMinutes: maxMinutes}
}

func (f *fibonacci) next() time.Duration {
	result := f.currentMinutes
	next := f.prevMinutes + f.currentMinutes
	f.prevMinutes = f.currentMinutes
	if next > f.maxMinutes {
		next = f.maxMinutes
	}
	f.currentMinutes = next
	return time.Duration(result) * time.Minute
}

// Registry tracks one Fibonacci sequence per resource identity. Entries are
// created lazily on first failure and dropped on reset to bound memory — the
// registry never grows without bound for resources that keep succeeding.
//
// Unlike the teacher's single-goroutine-per-key gatewaysync_controller.go
// backoff map, this registry is guarded by a mutex: controller-runtime may
// run reconciles for different keys concurrently when MaxConcurrentReconciles
// > 1, and the map itself is shared state across those goroutines.
type Registry struct {
	minMinutes, maxMinutes int64

	mu      sync.Mutex
	entries map[types.NamespacedName]*fibonacci
}

// NewRegistry creates a registry whose sequence is bounded by [min, max].
// Both bounds are truncated to whole minutes. The controller builds a single
// registry from the BACKOFF_MIN_MINUTES/BACKOFF_MAX_MINUTES settings and uses
// it for every transient failure kind.
func NewRegistry(min, max time.Duration) *Registry {
	return &Registry{
		minMinutes: int64(min / time.Minute),
		maxMinutes: int64(max / time.Minute),
		entries:    make(map[types.NamespacedName]*fibonacci),
	}
}

// Next returns the next backoff delay for key and advances its sequence.
func (r *Registry) Next(key types.NamespacedName) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.entries[key]
	if !ok {
		f = newFibonacci(r.minMinutes, r.maxMinutes)
		r.entries[key] = f
	}
	return f.next()
}

// Reset drops key's sequence so the next failure starts from the minimum.
// Call on every successful reconcile.
func (r *Registry) Reset(key types.NamespacedName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}
