package geo

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Handle provides shared, read-only access to a lazily built index.
// Concurrent first-use build requests coalesce into a single build;
// after that every caller sees the same immutable index.
type Handle struct {
	build func() (*Index, error)

	group singleflight.Group
	mu    sync.RWMutex
	idx   *Index
}

// NewHandle wraps a build function. The function runs at most once
// unless it fails, in which case the next caller retries.
func NewHandle(build func() (*Index, error)) *Handle {
	return &Handle{build: build}
}

// NewStaticHandle wraps an already built index (eager startup path)
func NewStaticHandle(idx *Index) *Handle {
	return &Handle{idx: idx}
}

// Index returns the shared index, building it on first use
func (h *Handle) Index() (*Index, error) {
	h.mu.RLock()
	idx := h.idx
	h.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	v, err, _ := h.group.Do("index", func() (any, error) {
		h.mu.RLock()
		built := h.idx
		h.mu.RUnlock()
		if built != nil {
			return built, nil
		}
		idx, err := h.build()
		if err != nil {
			return nil, err
		}
		h.mu.Lock()
		h.idx = idx
		h.mu.Unlock()
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}
