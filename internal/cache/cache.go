package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/groupcache/lru"
)

// This is a cache of resolved values. Resolution is a pure function of the
// input text and the options, so the result of a previous call can be reused
// as long as:
//
//   - The string key covers everything the result depends on. Keys are built
//     by "config.Options.CacheKey", which encodes the options as JSON with
//     sorted map keys so equal options always produce equal keys.
//
//   - The options carry no callbacks. A callback may return something
//     different the next time it's called, so results obtained through one
//     are never stored. "CacheKey" refuses to build a key in that case.
//
// A failed resolution is cached too. It's stored as an entry with a nil
// value, which "Get" reports as present so callers can tell it apart from a
// value that was never computed.
type CacheSet struct {
	families [familyCount]*LRU
}

type Family uint8

const (
	FamilyResolve Family = iota
	FamilyConvert
	FamilyPreProcess
	FamilyVar
	FamilyCalc
	FamilyRelative
	FamilyNumberToHex

	familyCount
)

var familyNames = [familyCount]string{
	"resolve",
	"convert",
	"preProcess",
	"var",
	"calc",
	"relative",
	"numberToHex",
}

func (f Family) String() string {
	return familyNames[f]
}

const DefaultCapacity = 4096

// A capacity of zero or less means "DefaultCapacity".
func MakeCacheSet(capacity int) *CacheSet {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	set := &CacheSet{}
	for i := range set.families {
		set.families[i] = NewLRU(capacity)
	}
	return set
}

func (set *CacheSet) Family(f Family) *LRU {
	return set.families[f]
}

func (set *CacheSet) Get(f Family, key string) (interface{}, bool) {
	return set.families[f].Get(key)
}

func (set *CacheSet) Set(f Family, key string, value interface{}) {
	set.families[f].Set(key, value)
}

func (set *CacheSet) Stats() map[string]Stats {
	stats := make(map[string]Stats, familyCount)
	for i, c := range set.families {
		stats[Family(i).String()] = c.Stats()
	}
	return stats
}

// LRU is a fixed-size cache that is safe for concurrent use. Entries are
// looked up by a 64-bit hash of the key and the full key is kept alongside
// the value to rule out collisions.
type LRU struct {
	mutex  sync.Mutex
	lru    *lru.Cache
	hits   uint64
	misses uint64
}

type lruEntry struct {
	key   string
	value interface{}
}

type Stats struct {
	Len    int
	Hits   uint64
	Misses uint64
}

func NewLRU(capacity int) *LRU {
	return &LRU{lru: lru.New(capacity)}
}

func (c *LRU) Get(key string) (interface{}, bool) {
	hash := xxhash.Sum64String(key)
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if found, ok := c.lru.Get(hash); ok {
		if entry := found.(lruEntry); entry.key == key {
			c.hits++
			return entry.value, true
		}
	}
	c.misses++
	return nil, false
}

func (c *LRU) Set(key string, value interface{}) {
	hash := xxhash.Sum64String(key)
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.lru.Add(hash, lruEntry{key: key, value: value})
}

func (c *LRU) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.lru.Clear()
	c.hits = 0
	c.misses = 0
}

func (c *LRU) Stats() Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return Stats{Len: c.lru.Len(), Hits: c.hits, Misses: c.misses}
}
