package constraint

import (
	"time"

	"github.com/msto63/werktag/pkg/core/cache"
)

// Memoize caches the answers of c per instant in a bounded cache.
// The engine never caches classifications itself; wrap expensive subtrees,
// such as remote-backed sources, when probing at fine precision.
// Errors are not cached.
func Memoize(c Constraint, maxItems int) Constraint {
	m := &memo{
		inner: c,
		cache: cache.New[memoKey, memoEntry](cache.Config{MaxItems: maxItems}),
	}
	return FromSource(m)
}

type memoKey struct {
	unix int64
	loc  string
}

type memoEntry struct {
	ok    bool
	label string
}

type memo struct {
	inner Constraint
	cache *cache.Cache[memoKey, memoEntry]
}

func (m *memo) lookup(t time.Time) (memoEntry, error) {
	key := memoKey{unix: t.UnixNano(), loc: t.Location().String()}
	return m.cache.GetOrSet(key, func() (memoEntry, error) {
		ok, label, err := m.inner.Explain(t)
		return memoEntry{ok: ok, label: label}, err
	})
}

func (m *memo) Evaluate(t time.Time) (bool, error) {
	e, err := m.lookup(t)
	return e.ok, err
}

func (m *memo) Describe(t time.Time) string {
	e, err := m.lookup(t)
	if err != nil {
		return ""
	}
	return e.label
}

// Stats reports the hit statistics of a memoized constraint.
// ok is false when c was not built by Memoize.
func Stats(c Constraint) (hits, misses int64, ok bool) {
	m, isMemo := c.source.(*memo)
	if !isMemo {
		return 0, 0, false
	}
	hits, misses, _ = m.cache.Stats()
	return hits, misses, true
}
