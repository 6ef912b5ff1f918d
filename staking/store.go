package staking

import (
	"fmt"
	"sync"

	"github.com/ch0002ic/creatorcoin-ai/db"
	"github.com/ch0002ic/creatorcoin-ai/jsonx"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/store"
)

// StakeStore persists stake records. Status transitions go through the
// tracker only.
type StakeStore interface {
	Store(record *StakeRecord) error
	GetByID(stakeID string) (*StakeRecord, error)
	ListByAddress(addr string) ([]*StakeRecord, error)
	ListAll() ([]*StakeRecord, error)
	MustClose()
}

type GenericStakeStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericStakeStore(dbProvider db.DatabaseProvider) (*GenericStakeStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericStakeStore{
		dbProvider: dbProvider,
	}, nil
}

// Store writes the record and its owner index entry in one batch. Stake ids
// are ULIDs, so the index iterates in creation order.
func (ss *GenericStakeStore) Store(record *StakeRecord) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	data, err := jsonx.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal stake %s: %w", record.StakeID, err)
	}

	err = db.WithBatch(ss.dbProvider, func(batch db.DatabaseBatch) error {
		batch.Put(stakeKey(record.StakeID), data)
		batch.Put(stakeAccountKey(record.Address, record.StakeID), []byte(record.StakeID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write stake %s: %w", record.StakeID, err)
	}
	return nil
}

// GetByID returns the stake record, nil when unknown
func (ss *GenericStakeStore) GetByID(stakeID string) (*StakeRecord, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	data, err := ss.dbProvider.Get(stakeKey(stakeID))
	if err != nil {
		return nil, fmt.Errorf("could not get stake %s from db: %w", stakeID, err)
	}
	if data == nil {
		return nil, nil
	}

	var record StakeRecord
	if err := jsonx.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stake %s: %w", stakeID, err)
	}
	return &record, nil
}

// ListByAddress returns addr's stakes in creation order
func (ss *GenericStakeStore) ListByAddress(addr string) ([]*StakeRecord, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	iterable, ok := ss.dbProvider.(db.IterableProvider)
	if !ok {
		return nil, fmt.Errorf("db provider does not support iteration")
	}

	ids := make([]string, 0)
	err := iterable.IteratePrefix([]byte(store.PrefixStakeAccount+addr+":"), func(key, value []byte) bool {
		ids = append(ids, string(value))
		return true
	})
	if err != nil {
		return nil, err
	}

	records := make([]*StakeRecord, 0, len(ids))
	for _, id := range ids {
		data, err := ss.dbProvider.Get(stakeKey(id))
		if err != nil {
			return nil, fmt.Errorf("could not get stake %s from db: %w", id, err)
		}
		if data == nil {
			return nil, fmt.Errorf("stake index points at missing record %s", id)
		}
		var record StakeRecord
		if err := jsonx.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stake %s: %w", id, err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// ListAll returns every stake record. Requires an iterable provider.
func (ss *GenericStakeStore) ListAll() ([]*StakeRecord, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	iterable, ok := ss.dbProvider.(db.IterableProvider)
	if !ok {
		return nil, fmt.Errorf("db provider does not support iteration")
	}

	records := make([]*StakeRecord, 0)
	var iterErr error
	err := iterable.IteratePrefix([]byte(store.PrefixStake), func(key, value []byte) bool {
		var record StakeRecord
		if err := jsonx.Unmarshal(value, &record); err != nil {
			iterErr = fmt.Errorf("failed to unmarshal stake at %s: %w", string(key), err)
			return false
		}
		records = append(records, &record)
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return records, nil
}

func (ss *GenericStakeStore) MustClose() {
	err := ss.dbProvider.Close()
	if err != nil {
		logx.Error("STAKE_STORE", "Failed to close db provider:", err.Error())
	}
}

func stakeKey(stakeID string) []byte {
	return []byte(store.PrefixStake + stakeID)
}

func stakeAccountKey(addr, stakeID string) []byte {
	return []byte(store.PrefixStakeAccount + addr + ":" + stakeID)
}
