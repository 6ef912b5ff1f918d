package ledger

import (
	"sort"
	"sync"
)

// addressLockTable hands out one mutex per account address so operations
// touching disjoint accounts never serialize on each other.
type addressLockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAddressLockTable() *addressLockTable {
	return &addressLockTable{
		locks: make(map[string]*sync.Mutex),
	}
}

func (t *addressLockTable) lockFor(addr string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.locks[addr]
	if !ok {
		l = &sync.Mutex{}
		t.locks[addr] = l
	}
	return l
}

// acquire locks every given address in ascending order and returns the
// release function. Sorted acquisition keeps multi-account operations
// deadlock free; duplicates are locked once.
func (t *addressLockTable) acquire(addrs ...string) func() {
	unique := make([]string, 0, len(addrs))
	seen := make(map[string]bool, len(addrs))
	for _, addr := range addrs {
		if !seen[addr] {
			seen[addr] = true
			unique = append(unique, addr)
		}
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, addr := range unique {
		l := t.lockFor(addr)
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
