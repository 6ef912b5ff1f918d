package db

import (
	"fmt"
	"strings"
)

// Backend identifies a database provider implementation
type Backend string

const (
	BackendMemory  Backend = "memory"
	BackendLevelDB Backend = "leveldb"
	BackendBolt    Backend = "bbolt"
	BackendRedis   Backend = "redis"
	BackendRocksDB Backend = "rocksdb"
)

// NewProvider opens the database provider for the configured backend.
// target is a directory path for file-backed backends and an address
// (host:port) for redis.
func NewProvider(backend Backend, target string) (DatabaseProvider, error) {
	switch Backend(strings.ToLower(string(backend))) {
	case BackendMemory, "":
		return NewMemoryProvider(), nil
	case BackendLevelDB:
		return NewLevelDBProvider(target)
	case BackendBolt:
		return NewBoltProvider(target)
	case BackendRedis:
		return NewRedisProvider(target)
	case BackendRocksDB:
		return NewRocksDBProvider(target)
	default:
		return nil, fmt.Errorf("unknown db backend %q", backend)
	}
}
