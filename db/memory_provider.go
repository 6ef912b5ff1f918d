package db

import (
	"bytes"
	"sort"
	"sync"
)

// MemoryProvider implements DatabaseProvider with an in-process map. It is
// the default backend for development and tests.
type MemoryProvider struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryProvider creates an empty in-memory provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{data: make(map[string][]byte)}
}

// Get retrieves a value by key
func (p *MemoryProvider) Get(key []byte) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	value, ok := p.data[string(key)]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

// GetBatch retrieves multiple values by keys in a single operation
func (p *MemoryProvider) GetBatch(keys [][]byte) (map[string][]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if value, ok := p.data[string(key)]; ok {
			cp := make([]byte, len(value))
			copy(cp, value)
			result[string(key)] = cp
		}
	}
	return result, nil
}

// Put stores a key-value pair
func (p *MemoryProvider) Put(key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	p.data[string(key)] = cp
	return nil
}

// Delete removes a key-value pair
func (p *MemoryProvider) Delete(key []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.data, string(key))
	return nil
}

// Has checks if a key exists
func (p *MemoryProvider) Has(key []byte) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.data[string(key)]
	return ok, nil
}

// Close releases the provider. The map is dropped so a closed provider
// reads as empty.
func (p *MemoryProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.data = make(map[string][]byte)
	return nil
}

// Batch returns a new batch for atomic operations
func (p *MemoryProvider) Batch() DatabaseBatch {
	return &MemoryBatch{provider: p}
}

// IteratePrefix iterates keys with the given prefix in ascending key order
func (p *MemoryProvider) IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error {
	p.mu.RLock()
	keys := make([]string, 0, len(p.data))
	for k := range p.data {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	p.mu.RUnlock()

	sort.Strings(keys)
	for _, k := range keys {
		value, err := p.Get([]byte(k))
		if err != nil {
			return err
		}
		if value == nil {
			continue
		}
		if !callback([]byte(k), value) {
			break
		}
	}
	return nil
}

type memoryBatchOp struct {
	key    string
	value  []byte
	delete bool
}

// MemoryBatch implements DatabaseBatch for MemoryProvider
type MemoryBatch struct {
	provider *MemoryProvider
	ops      []memoryBatchOp
}

// Put adds a key-value pair to the batch
func (b *MemoryBatch) Put(key, value []byte) {
	cp := make([]byte, len(value))
	copy(cp, value)
	b.ops = append(b.ops, memoryBatchOp{key: string(key), value: cp})
}

// Delete adds a deletion to the batch
func (b *MemoryBatch) Delete(key []byte) {
	b.ops = append(b.ops, memoryBatchOp{key: string(key), delete: true})
}

// Write commits all operations in the batch atomically
func (b *MemoryBatch) Write() error {
	b.provider.mu.Lock()
	defer b.provider.mu.Unlock()

	for _, op := range b.ops {
		if op.delete {
			delete(b.provider.data, op.key)
			continue
		}
		b.provider.data[op.key] = op.value
	}
	return nil
}

// Reset clears the batch
func (b *MemoryBatch) Reset() {
	b.ops = b.ops[:0]
}

// Close releases batch resources
func (b *MemoryBatch) Close() {
	b.ops = nil
}
