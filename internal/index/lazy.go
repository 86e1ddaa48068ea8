package index

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// lazy holds one memoized value. Concurrent callers that find it empty
// share a single build; a reset while a build is in flight discards
// that build's result instead of storing it.
type lazy[T any] struct {
	mu    sync.Mutex
	built bool
	val   T
	gen   uint64
}

func (l *lazy[T]) get(g *singleflight.Group, key string, build func() (T, error)) (T, error) {
	l.mu.Lock()
	if l.built {
		v := l.val
		l.mu.Unlock()
		return v, nil
	}
	gen := l.gen
	l.mu.Unlock()

	v, err, _ := g.Do(fmt.Sprintf("%s#%d", key, gen), func() (any, error) {
		val, err := build()
		if err != nil {
			return val, err
		}
		l.mu.Lock()
		if l.gen == gen {
			l.val = val
			l.built = true
		}
		l.mu.Unlock()
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (l *lazy[T]) reset() {
	l.mu.Lock()
	var zero T
	l.val = zero
	l.built = false
	l.gen++
	l.mu.Unlock()
}

func (l *lazy[T]) isBuilt() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.built
}
