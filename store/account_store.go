package store

import (
	"fmt"
	"sync"

	"github.com/ch0002ic/creatorcoin-ai/db"
	"github.com/ch0002ic/creatorcoin-ai/jsonx"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/types"
)

// AccountStore persists ledger accounts. Mutation goes through the ledger
// engine only; the store itself has no balance rules.
type AccountStore interface {
	Store(account *types.Account) error
	StoreBatch(accounts []*types.Account) error
	GetByAddr(addr string) (*types.Account, error)
	ExistsByAddr(addr string) (bool, error)
	GetAll() ([]*types.Account, error)
	MustClose()
}

type GenericAccountStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericAccountStore(dbProvider db.DatabaseProvider) (*GenericAccountStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericAccountStore{dbProvider: dbProvider}, nil
}

func (as *GenericAccountStore) Store(account *types.Account) error {
	return as.StoreBatch([]*types.Account{account})
}

func (as *GenericAccountStore) StoreBatch(accounts []*types.Account) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	err := db.WithBatch(as.dbProvider, func(batch db.DatabaseBatch) error {
		for _, account := range accounts {
			accountData, err := jsonx.Marshal(account)
			if err != nil {
				return fmt.Errorf("failed to marshal account %s: %w", account.Address, err)
			}
			batch.Put(as.getDbKey(account.Address), accountData)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write batch of accounts to database: %w", err)
	}

	return nil
}

// GetByAddr returns account instance from db, return both nil if not exist
func (as *GenericAccountStore) GetByAddr(addr string) (*types.Account, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	data, err := as.dbProvider.Get(as.getDbKey(addr))
	if err != nil {
		return nil, fmt.Errorf("could not get account %s from db: %w", addr, err)
	}

	// Account doesn't exist
	if data == nil {
		return nil, nil
	}

	var acc types.Account
	if err := jsonx.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account %s: %w", addr, err)
	}
	return &acc, nil
}

func (as *GenericAccountStore) ExistsByAddr(addr string) (bool, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	return as.dbProvider.Has(as.getDbKey(addr))
}

// GetAll returns every persisted account. Requires an iterable provider.
func (as *GenericAccountStore) GetAll() ([]*types.Account, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	iterable, ok := as.dbProvider.(db.IterableProvider)
	if !ok {
		return nil, fmt.Errorf("db provider does not support iteration")
	}

	accounts := make([]*types.Account, 0)
	var iterErr error
	err := iterable.IteratePrefix([]byte(PrefixAccount), func(key, value []byte) bool {
		var acc types.Account
		if err := jsonx.Unmarshal(value, &acc); err != nil {
			iterErr = fmt.Errorf("failed to unmarshal account at %s: %w", string(key), err)
			return false
		}
		accounts = append(accounts, &acc)
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return accounts, nil
}

func (as *GenericAccountStore) MustClose() {
	err := as.dbProvider.Close()
	if err != nil {
		logx.Error("ACCOUNT_STORE", "Failed to close db provider:", err.Error())
	}
}

func (as *GenericAccountStore) getDbKey(addr string) []byte {
	return []byte(PrefixAccount + addr)
}
