package types

import (
	"time"

	"github.com/holiman/uint256"
)

// Account holds the spendable balances of one ledger account. Balances are
// keyed by currency code and expressed in integer minor units. Principal
// locked in active stakes is tracked by the stake records, never here.
type Account struct {
	Address   string                  `json:"address"`
	Balances  map[string]*uint256.Int `json:"balances"`
	CreatedAt time.Time               `json:"created_at"`
}

// NewAccount creates an account with zero balances
func NewAccount(address string, createdAt time.Time) *Account {
	return &Account{
		Address:   address,
		Balances:  make(map[string]*uint256.Int),
		CreatedAt: createdAt,
	}
}

// Balance returns a copy of the spendable balance for currency, zero when
// the currency has never been credited.
func (a *Account) Balance(currency string) *uint256.Int {
	if b, ok := a.Balances[currency]; ok && b != nil {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

// Clone returns a deep copy of the account
func (a *Account) Clone() *Account {
	cp := &Account{
		Address:   a.Address,
		Balances:  make(map[string]*uint256.Int, len(a.Balances)),
		CreatedAt: a.CreatedAt,
	}
	for currency, balance := range a.Balances {
		cp.Balances[currency] = new(uint256.Int).Set(balance)
	}
	return cp
}
