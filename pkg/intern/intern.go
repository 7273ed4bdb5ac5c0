// Package intern provides a sharded, bounded, content-addressed cache that
// deduplicates equal byteview.Values into one canonical shared instance:
// keys and record fragments that recur across a storage engine's working
// set, stored once instead of once per occurrence.
//
// Sharding is by content hash (one mutex per shard, an integrated LRU
// bucket list per shard) with pooled-entry-style reset on eviction -
// releasing the evicted entry's Value rather than resetting a pooled
// struct.
package intern

import (
	"hash/maphash"
	"sync"

	"github.com/watt-toolkit/byteview/pkg/byteview"
)

// Config configures an Interner. The zero Config is valid and uses sensible
// defaults (see New).
type Config struct {
	// ShardCount is the number of independent shards. Higher counts reduce
	// lock contention under concurrent Intern calls at the cost of a less
	// precise global LRU order and a higher memory floor. Rounded up to the
	// next power of two. Zero means 32.
	ShardCount int

	// MaxEntriesPerShard bounds how many distinct byte sequences each shard
	// retains before evicting its least-recently-used entry. Zero means no
	// eviction (the shard grows without bound).
	MaxEntriesPerShard int
}

// Option configures an Interner via New's functional-options parameters.
type Option func(*Config)

// WithShardCount overrides Config.ShardCount.
func WithShardCount(n int) Option {
	return func(c *Config) { c.ShardCount = n }
}

// WithMaxEntries overrides Config.MaxEntriesPerShard.
func WithMaxEntries(n int) Option {
	return func(c *Config) { c.MaxEntriesPerShard = n }
}

const defaultShardCount = 32

// Interner deduplicates byte content into shared byteview.Values. It is safe
// for concurrent use by multiple goroutines.
type Interner struct {
	shards    []*shard
	shardMask uint64
	seed      maphash.Seed
}

// Stats reports point-in-time counters for an Interner.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

type entry struct {
	key   string
	value byteview.Value
	prev  *entry
	next  *entry
}

type shard struct {
	mu      sync.Mutex
	byKey   map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
	maxSize int

	hits      uint64
	misses    uint64
	evictions uint64
}

// New returns an Interner configured by opts, defaulting to 32 shards and no
// eviction bound.
func New(opts ...Option) *Interner {
	cfg := Config{ShardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.ShardCount <= 0 {
		cfg.ShardCount = defaultShardCount
	}
	n := 1
	for n < cfg.ShardCount {
		n <<= 1
	}
	cfg.ShardCount = n

	in := &Interner{
		shards:    make([]*shard, cfg.ShardCount),
		shardMask: uint64(cfg.ShardCount - 1),
		seed:      maphash.MakeSeed(),
	}
	for i := range in.shards {
		in.shards[i] = &shard{
			byKey:   make(map[string]*entry),
			maxSize: cfg.MaxEntriesPerShard,
		}
	}
	return in
}

// Intern returns the canonical Value for content equal to b: if an equal
// sequence was interned before, its shared Value is cloned and returned
// (bumping its refcount for heap-backed content, per byteview's ownership
// contract); otherwise a new Value is constructed, stored as the new
// canonical instance, and returned. The caller owns the returned Value and
// must Release it like any other byteview.Value it holds.
func (in *Interner) Intern(b []byte) (byteview.Value, error) {
	h := maphash.Bytes(in.seed, b)
	s := in.shards[h&in.shardMask]

	s.mu.Lock()
	defer s.mu.Unlock()

	key := string(b) // a real copy; safe to use as a map key and as storage.
	if e, ok := s.byKey[key]; ok {
		s.hits++
		s.moveToFront(e)
		return e.value.Clone(), nil
	}
	s.misses++

	v, err := byteview.FromBytes(b)
	if err != nil {
		return byteview.Value{}, err
	}

	e := &entry{key: key, value: v}
	s.byKey[key] = e
	s.pushFront(e)

	if s.maxSize > 0 && len(s.byKey) > s.maxSize {
		s.evictLRU()
	}

	return v.Clone(), nil
}

// Stats aggregates hit/miss/eviction counters and current entry count across
// all shards.
func (in *Interner) Stats() Stats {
	var st Stats
	for _, s := range in.shards {
		s.mu.Lock()
		st.Hits += s.hits
		st.Misses += s.misses
		st.Evictions += s.evictions
		st.Entries += len(s.byKey)
		s.mu.Unlock()
	}
	return st
}

// Close releases every canonical Value this Interner is holding. After
// Close, the Interner must not be used again.
func (in *Interner) Close() {
	for _, s := range in.shards {
		s.mu.Lock()
		for _, e := range s.byKey {
			e.value.Release()
		}
		s.byKey = nil
		s.head, s.tail = nil, nil
		s.mu.Unlock()
	}
}

func (s *shard) pushFront(e *entry) {
	e.prev = nil
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *shard) moveToFront(e *entry) {
	if e == s.head {
		return
	}
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if e == s.tail {
		s.tail = e.prev
	}
	e.prev = nil
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *shard) evictLRU() {
	e := s.tail
	if e == nil {
		return
	}
	if e.prev != nil {
		e.prev.next = nil
	}
	s.tail = e.prev
	if s.head == e {
		s.head = nil
	}

	delete(s.byKey, e.key)
	e.value.Release()
	s.evictions++
}
