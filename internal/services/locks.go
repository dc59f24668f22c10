package services

import (
	"sort"
	"sync"
)

// MarketLocks hands out one mutex per market id so that placements and
// resolution against the same market never interleave, while work on distinct
// markets proceeds in parallel. A placement must freeze odds and recompute
// the pool against committed state only. The database transaction remains
// the atomicity boundary; these locks only order unit-of-work entry.
type MarketLocks struct {
	locks sync.Map // market id -> *sync.Mutex
}

func NewMarketLocks() *MarketLocks {
	return &MarketLocks{}
}

// Lock acquires the market's mutex and returns its unlock function.
func (l *MarketLocks) Lock(marketID uint) func() {
	v, _ := l.locks.LoadOrStore(marketID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// LockAll acquires the given markets in ascending id order so two parlays
// touching overlapping market sets cannot deadlock. Duplicate ids are locked
// once.
func (l *MarketLocks) LockAll(marketIDs []uint) func() {
	seen := make(map[uint]struct{}, len(marketIDs))
	ids := make([]uint, 0, len(marketIDs))
	for _, id := range marketIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	unlocks := make([]func(), 0, len(ids))
	for _, id := range ids {
		unlocks = append(unlocks, l.Lock(id))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}
