package formval

import (
	"net/http"
	"sync"
	"sync/atomic"
)

// SourceCache holds one value of type C per source instance. The memory
// address of the source is the cache key, which is safe in Go since
// objects don't move once allocated.
//
// It is safe for concurrent use.
type SourceCache[S any, C any] struct {
	cache sync.Map // map[*S]*sourceCacheEntry[C]
}

type sourceCacheEntry[C any] struct {
	once sync.Once
	done atomic.Bool
	data C
}

func NewSourceCache[S any, C any]() *SourceCache[S, C] {
	return &SourceCache[S, C]{}
}

// GetOrCreate returns the cached value for source, calling factory to
// create it on first use. factory runs at most once per source, even under
// concurrent access, and every caller sees its result.
func (sc *SourceCache[S, C]) GetOrCreate(source *S, factory func() C) C {
	v, _ := sc.cache.LoadOrStore(source, &sourceCacheEntry[C]{})
	entry := v.(*sourceCacheEntry[C])

	entry.once.Do(func() {
		entry.data = factory()
		entry.done.Store(true)
	})
	return entry.data
}

// Get returns the cached value for source if one has been created.
func (sc *SourceCache[S, C]) Get(source *S) (C, bool) {
	if v, ok := sc.cache.Load(source); ok {
		entry := v.(*sourceCacheEntry[C])
		if entry.done.Load() {
			return entry.data, true
		}
	}

	var zero C
	return zero, false
}

// Delete removes the cached value for source.
func (sc *SourceCache[S, C]) Delete(source *S) {
	sc.cache.Delete(source)
}

// Clear removes every cached value.
func (sc *SourceCache[S, C]) Clear() {
	sc.cache.Range(func(key, _ any) bool {
		sc.cache.Delete(key)
		return true
	})
}

// Len returns the number of cached sources.
func (sc *SourceCache[S, C]) Len() int {
	n := 0
	sc.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

///////////////////////////////////////////////////////////////////////////////
// RequestBinder
///////////////////////////////////////////////////////////////////////////////

// RequestBinder hands out FetchFuncs bound to HTTP requests. All fields
// bound to the same request share a single RequestSource, so the request
// is parsed once no matter how many fields read from it.
//
// Call Release once a request has been handled.
type RequestBinder struct {
	sources *SourceCache[http.Request, *RequestSource]
}

func NewRequestBinder() *RequestBinder {
	return &RequestBinder{
		sources: NewSourceCache[http.Request, *RequestSource](),
	}
}

// Source returns the shared RequestSource for r.
func (rb *RequestBinder) Source(r *http.Request) *RequestSource {
	return rb.sources.GetOrCreate(r, func() *RequestSource {
		return NewRequestSource(r)
	})
}

// Bind returns a FetchFunc resolving spec against r.
func (rb *RequestBinder) Bind(r *http.Request, spec string) (FetchFunc, error) {
	return Bind(rb.Source(r), spec)
}

// Release drops the cached source of r.
func (rb *RequestBinder) Release(r *http.Request) {
	rb.sources.Delete(r)
}
