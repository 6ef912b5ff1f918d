package db

// DatabaseProvider is the storage contract shared by every backend. Get
// returns (nil, nil) for a missing key; the stores rely on that to tell
// absent records apart from read failures.
type DatabaseProvider interface {
	Get(key []byte) ([]byte, error)

	// GetBatch resolves many keys at once; missing keys are simply
	// absent from the result map.
	GetBatch(keys [][]byte) (map[string][]byte, error)

	Put(key, value []byte) error

	Delete(key []byte) error

	Has(key []byte) (bool, error)

	Close() error

	// Batch returns a write batch; use WithBatch for the
	// commit-or-discard flow.
	Batch() DatabaseBatch
}

// IterableProvider adds ordered prefix scans. The log store needs this
// for its sequence and per-account indexes, so every shipped backend
// implements it.
type IterableProvider interface {
	DatabaseProvider

	// IteratePrefix visits keys with the prefix in ascending key order.
	// Returning false from the callback stops the scan.
	IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error
}

// DatabaseBatch collects writes that land atomically on Write.
type DatabaseBatch interface {
	Put(key, value []byte)

	Delete(key []byte)

	Write() error

	Reset()

	Close()
}
