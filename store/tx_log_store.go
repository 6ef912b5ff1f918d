package store

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ch0002ic/creatorcoin-ai/db"
	"github.com/ch0002ic/creatorcoin-ai/jsonx"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/transaction"
)

// RequestRef records which transaction a client requestId produced, so a
// retried request can be answered with the original result.
type RequestRef struct {
	Kind    transaction.Kind `json:"kind"`
	TxID    string           `json:"tx_id"`
	StakeID string           `json:"stake_id,omitempty"`
}

// TxLogStore is the append-only transaction log. Append assigns the global
// sequence number; appended records are never modified or deleted.
type TxLogStore interface {
	Append(tx *transaction.Transaction) error
	AppendWithRequest(tx *transaction.Transaction, ref *RequestRef) error
	GetByID(txID string) (*transaction.Transaction, error)
	GetByRequestID(requestID string) (*RequestRef, *transaction.Transaction, error)
	ByAccount(addr string) ([]*transaction.Transaction, error)
	ByAccountPage(addr string, limit, offset uint32) (uint32, []*transaction.Transaction, error)
	All() ([]*transaction.Transaction, error)
	LatestSeq() uint64
	MustClose()
}

type GenericTxLogStore struct {
	mu         sync.Mutex
	dbProvider db.DatabaseProvider
	nextSeq    uint64
}

func NewGenericTxLogStore(dbProvider db.DatabaseProvider) (*GenericTxLogStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	ts := &GenericTxLogStore{dbProvider: dbProvider, nextSeq: 1}
	data, err := dbProvider.Get([]byte(TxLogMetaKeyLatestSeq))
	if err != nil {
		return nil, fmt.Errorf("could not read log sequence: %w", err)
	}
	if data != nil {
		latest, err := strconv.ParseUint(string(data), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt log sequence %q: %w", string(data), err)
		}
		ts.nextSeq = latest + 1
	}
	return ts, nil
}

// Append writes a transaction without an idempotency entry
func (ts *GenericTxLogStore) Append(tx *transaction.Transaction) error {
	return ts.AppendWithRequest(tx, nil)
}

// AppendWithRequest assigns the next sequence number to tx and writes the
// record, the global and per-account order indexes, and the optional
// request reference in a single batch.
func (ts *GenericTxLogStore) AppendWithRequest(tx *transaction.Transaction, ref *RequestRef) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	tx.Seq = ts.nextSeq

	txData, err := jsonx.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	var refData []byte
	if ref != nil && tx.RequestID() != "" {
		refData, err = jsonx.Marshal(ref)
		if err != nil {
			return fmt.Errorf("failed to marshal request ref: %w", err)
		}
	}

	err = db.WithBatch(ts.dbProvider, func(batch db.DatabaseBatch) error {
		batch.Put(txKey(tx.TxID), txData)
		batch.Put(seqKey(tx.Seq), []byte(tx.TxID))
		for _, addr := range participantAddrs(tx) {
			batch.Put(accountSeqKey(addr, tx.Seq), []byte(tx.TxID))
		}
		if refData != nil {
			batch.Put(requestKey(tx.RequestID()), refData)
		}
		batch.Put([]byte(TxLogMetaKeyLatestSeq), []byte(strconv.FormatUint(tx.Seq, 10)))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append transaction %s: %w", tx.TxID, err)
	}

	ts.nextSeq++
	return nil
}

// GetByID returns the transaction with the given id, nil when unknown
func (ts *GenericTxLogStore) GetByID(txID string) (*transaction.Transaction, error) {
	data, err := ts.dbProvider.Get(txKey(txID))
	if err != nil {
		return nil, fmt.Errorf("could not get transaction %s: %w", txID, err)
	}
	if data == nil {
		return nil, nil
	}

	var tx transaction.Transaction
	if err := jsonx.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction %s: %w", txID, err)
	}
	return &tx, nil
}

// GetByRequestID resolves a client requestId to its reference and the
// transaction it produced. Both are nil when the requestId is unseen.
func (ts *GenericTxLogStore) GetByRequestID(requestID string) (*RequestRef, *transaction.Transaction, error) {
	data, err := ts.dbProvider.Get(requestKey(requestID))
	if err != nil {
		return nil, nil, fmt.Errorf("could not look up request %s: %w", requestID, err)
	}
	if data == nil {
		return nil, nil, nil
	}

	var ref RequestRef
	if err := jsonx.Unmarshal(data, &ref); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal request ref %s: %w", requestID, err)
	}
	tx, err := ts.GetByID(ref.TxID)
	if err != nil {
		return nil, nil, err
	}
	return &ref, tx, nil
}

// ByAccount returns every transaction touching addr in sequence order
func (ts *GenericTxLogStore) ByAccount(addr string) ([]*transaction.Transaction, error) {
	ids, err := ts.collectIDs([]byte(PrefixTxAccount + addr + ":"))
	if err != nil {
		return nil, err
	}
	return ts.loadOrdered(ids)
}

// ByAccountPage returns a page of the account's history plus the total count
func (ts *GenericTxLogStore) ByAccountPage(addr string, limit, offset uint32) (uint32, []*transaction.Transaction, error) {
	ids, err := ts.collectIDs([]byte(PrefixTxAccount + addr + ":"))
	if err != nil {
		return 0, nil, err
	}

	total := uint32(len(ids))
	if offset >= total {
		return total, []*transaction.Transaction{}, nil
	}
	end := uint64(offset) + uint64(limit)
	if end > uint64(total) {
		end = uint64(total)
	}
	txs, err := ts.loadOrdered(ids[offset:end])
	if err != nil {
		return 0, nil, err
	}
	return total, txs, nil
}

// All returns the full log in sequence order
func (ts *GenericTxLogStore) All() ([]*transaction.Transaction, error) {
	ids, err := ts.collectIDs([]byte(PrefixTxSeq))
	if err != nil {
		return nil, err
	}
	return ts.loadOrdered(ids)
}

// LatestSeq returns the sequence number of the most recent append, 0 when
// the log is empty.
func (ts *GenericTxLogStore) LatestSeq() uint64 {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.nextSeq - 1
}

func (ts *GenericTxLogStore) MustClose() {
	if err := ts.dbProvider.Close(); err != nil {
		logx.Error("TX_LOG", "Failed to close db provider:", err.Error())
	}
}

// collectIDs walks an index prefix. Sequence numbers are zero-padded so
// lexicographic key order is numeric order.
func (ts *GenericTxLogStore) collectIDs(prefix []byte) ([]string, error) {
	iterable, ok := ts.dbProvider.(db.IterableProvider)
	if !ok {
		return nil, fmt.Errorf("db provider does not support iteration")
	}

	ids := make([]string, 0)
	err := iterable.IteratePrefix(prefix, func(key, value []byte) bool {
		ids = append(ids, string(value))
		return true
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (ts *GenericTxLogStore) loadOrdered(ids []string) ([]*transaction.Transaction, error) {
	if len(ids) == 0 {
		return []*transaction.Transaction{}, nil
	}

	keys := make([][]byte, len(ids))
	for i, id := range ids {
		keys[i] = txKey(id)
	}
	values, err := ts.dbProvider.GetBatch(keys)
	if err != nil {
		return nil, fmt.Errorf("could not load transactions: %w", err)
	}

	txs := make([]*transaction.Transaction, 0, len(ids))
	for i, id := range ids {
		data, ok := values[string(keys[i])]
		if !ok {
			return nil, fmt.Errorf("log index references missing transaction %s", id)
		}
		var tx transaction.Transaction
		if err := jsonx.Unmarshal(data, &tx); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction %s: %w", id, err)
		}
		txs = append(txs, &tx)
	}
	return txs, nil
}

func participantAddrs(tx *transaction.Transaction) []string {
	seen := make(map[string]bool, len(tx.Participants))
	addrs := make([]string, 0, len(tx.Participants))
	for _, p := range tx.Participants {
		if !seen[p.Address] {
			seen[p.Address] = true
			addrs = append(addrs, p.Address)
		}
	}
	return addrs
}

func txKey(txID string) []byte {
	return []byte(PrefixTx + txID)
}

func seqKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", PrefixTxSeq, seq))
}

func accountSeqKey(addr string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", PrefixTxAccount, addr, seq))
}

func requestKey(requestID string) []byte {
	return []byte(PrefixRequest + requestID)
}
