package events

import (
	"time"
)

// EventType is an enum-like string type for ledger events
type EventType string

const (
	EventTransactionApplied EventType = "TransactionApplied"
	EventOperationRejected  EventType = "OperationRejected"
	EventStakeStatusChanged EventType = "StakeStatusChanged"
	EventFundingGranted     EventType = "FundingGranted"
)

// LedgerEvent represents any event emitted by the ledger service
type LedgerEvent interface {
	Type() EventType
	Timestamp() time.Time
	TxID() string
}

// TransactionApplied event when an operation has been applied and logged
type TransactionApplied struct {
	txID      string
	kind      string
	timestamp time.Time
}

func NewTransactionApplied(txID string, kind string) *TransactionApplied {
	return &TransactionApplied{
		txID:      txID,
		kind:      kind,
		timestamp: time.Now(),
	}
}

func (e *TransactionApplied) Type() EventType {
	return EventTransactionApplied
}

func (e *TransactionApplied) Timestamp() time.Time {
	return e.timestamp
}

func (e *TransactionApplied) TxID() string {
	return e.txID
}

func (e *TransactionApplied) Kind() string {
	return e.kind
}

// OperationRejected event when an operation fails a precondition.
// TxID is empty because nothing was applied.
type OperationRejected struct {
	kind      string
	code      string
	message   string
	timestamp time.Time
}

func NewOperationRejected(kind string, code string, message string) *OperationRejected {
	return &OperationRejected{
		kind:      kind,
		code:      code,
		message:   message,
		timestamp: time.Now(),
	}
}

func (e *OperationRejected) Type() EventType {
	return EventOperationRejected
}

func (e *OperationRejected) Timestamp() time.Time {
	return e.timestamp
}

func (e *OperationRejected) TxID() string {
	return ""
}

func (e *OperationRejected) Kind() string {
	return e.kind
}

func (e *OperationRejected) Code() string {
	return e.code
}

func (e *OperationRejected) Message() string {
	return e.message
}

// StakeStatusChanged event when a stake record changes status
type StakeStatusChanged struct {
	txID      string
	stakeID   string
	address   string
	status    string
	timestamp time.Time
}

func NewStakeStatusChanged(txID string, stakeID string, address string, status string) *StakeStatusChanged {
	return &StakeStatusChanged{
		txID:      txID,
		stakeID:   stakeID,
		address:   address,
		status:    status,
		timestamp: time.Now(),
	}
}

func (e *StakeStatusChanged) Type() EventType {
	return EventStakeStatusChanged
}

func (e *StakeStatusChanged) Timestamp() time.Time {
	return e.timestamp
}

func (e *StakeStatusChanged) TxID() string {
	return e.txID
}

func (e *StakeStatusChanged) StakeID() string {
	return e.stakeID
}

func (e *StakeStatusChanged) Address() string {
	return e.address
}

func (e *StakeStatusChanged) Status() string {
	return e.status
}

// FundingGranted event when the dev-funding endpoint credits an account
type FundingGranted struct {
	txID      string
	address   string
	amount    string
	timestamp time.Time
}

func NewFundingGranted(txID string, address string, amount string) *FundingGranted {
	return &FundingGranted{
		txID:      txID,
		address:   address,
		amount:    amount,
		timestamp: time.Now(),
	}
}

func (e *FundingGranted) Type() EventType {
	return EventFundingGranted
}

func (e *FundingGranted) Timestamp() time.Time {
	return e.timestamp
}

func (e *FundingGranted) TxID() string {
	return e.txID
}

func (e *FundingGranted) Address() string {
	return e.address
}

func (e *FundingGranted) Amount() string {
	return e.amount
}
