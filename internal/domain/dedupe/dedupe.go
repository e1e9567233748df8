// Package dedupe remembers recently scored submissions so identical answers
// are not ranked twice.
package dedupe

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okian/vocafit/internal/domain/instrument"
	"github.com/okian/vocafit/internal/domain/model"
	"github.com/okian/vocafit/internal/domain/types"
)

const defaultMaxSize = 10_000

// Memo maps submission fingerprints to the assessment produced for them.
type Memo interface {
	// Lookup returns the stored assessment for key, if any.
	Lookup(ctx context.Context, key string) (types.Assessment, bool)

	// Record stores a for key. It returns true if key was already present,
	// in which case the stored value is kept.
	Record(ctx context.Context, key string, a types.Assessment) bool

	// Forget removes key.
	Forget(ctx context.Context, key string)

	Size() int64
	Hits() int64
}

// Fingerprint is a stable key for a submission's answers and request shape.
// The submission id and timestamp do not take part.
func Fingerprint(sub model.Submission, n int, explain bool) string {
	var b strings.Builder
	raw := sub.Raw()
	for _, inst := range instrument.All {
		scores := raw[inst]
		cats := make([]instrument.Category, 0, len(scores))
		for c := range scores {
			cats = append(cats, c)
		}
		inst.Order(cats)

		b.WriteString(inst.String())
		for _, c := range cats {
			b.WriteByte('|')
			b.WriteString(string(c))
			b.WriteByte('=')
			b.WriteString(strconv.Itoa(scores[c]))
		}
		b.WriteByte(';')
	}
	b.WriteString("n=")
	b.WriteString(strconv.Itoa(n))
	if explain {
		b.WriteString(";explain")
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(b.String())).String()
}

// inMemoryMemo keeps at most maxSize entries and evicts the oldest first.
type inMemoryMemo struct {
	mu      sync.RWMutex
	entries map[string]types.Assessment
	order   []string // ring of keys in insertion order
	next    int      // ring slot to overwrite once full
	maxSize int
	size    atomic.Int64
	hits    atomic.Int64
}

// NewInMemoryMemo creates a bounded in-memory memo.
func NewInMemoryMemo(opts ...Option) Memo {
	m := &inMemoryMemo{
		maxSize: defaultMaxSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.entries = make(map[string]types.Assessment, m.maxSize)
	m.order = make([]string, 0, m.maxSize)
	return m
}

func (m *inMemoryMemo) Lookup(_ context.Context, key string) (types.Assessment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.entries[key]
	if ok {
		m.hits.Add(1)
	}
	return a, ok
}

func (m *inMemoryMemo) Record(_ context.Context, key string, a types.Assessment) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; exists {
		return true
	}

	if len(m.order) < m.maxSize {
		m.order = append(m.order, key)
	} else {
		m.evictOldest()
		m.order[m.next] = key
		m.next = (m.next + 1) % m.maxSize
	}
	m.entries[key] = a
	m.size.Store(int64(len(m.entries)))
	return false
}

// evictOldest drops the entry in the slot about to be reused. Slots emptied
// by Forget hold "" and are skipped.
// Must be called with m.mu held.
func (m *inMemoryMemo) evictOldest() {
	victim := m.order[m.next]
	if victim != "" {
		delete(m.entries, victim)
	}
}

func (m *inMemoryMemo) Forget(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists {
		return
	}
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order[i] = ""
			break
		}
	}
	m.size.Store(int64(len(m.entries)))
}

// Size returns the current number of entries.
func (m *inMemoryMemo) Size() int64 {
	return m.size.Load()
}

// Hits returns the number of successful lookups.
func (m *inMemoryMemo) Hits() int64 {
	return m.hits.Load()
}
