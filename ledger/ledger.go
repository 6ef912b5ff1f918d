package ledger

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/errors"
	"github.com/ch0002ic/creatorcoin-ai/events"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/monitoring"
	"github.com/ch0002ic/creatorcoin-ai/store"
	"github.com/ch0002ic/creatorcoin-ai/transaction"
	"github.com/ch0002ic/creatorcoin-ai/types"
	"github.com/ch0002ic/creatorcoin-ai/utils"
)

// Engine is the single mutation authority over account balances. Every
// balance change flows through one of its operations, each of which checks
// all preconditions first, then applies the change and appends exactly one
// transaction to the log.
type Engine struct {
	cfg          *config.LedgerConfig
	accountStore store.AccountStore
	txLog        store.TxLogStore
	eventBus     *events.EventBus
	ids          *utils.IDGenerator
	clock        types.Clock
	locks        *addressLockTable
}

func NewEngine(cfg *config.LedgerConfig, accountStore store.AccountStore, txLog store.TxLogStore, eventBus *events.EventBus, clock types.Clock) *Engine {
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &Engine{
		cfg:          cfg,
		accountStore: accountStore,
		txLog:        txLog,
		eventBus:     eventBus,
		ids:          utils.NewIDGenerator(clock),
		clock:        clock,
		locks:        newAddressLockTable(),
	}
}

// InitGenesis seeds the configured allocations. Once any operation has been
// logged the allocations are final, so calling this on every boot is safe.
func (e *Engine) InitGenesis() error {
	if e.txLog.LatestSeq() > 0 {
		return nil
	}
	for _, alloc := range e.cfg.GenesisAllocations {
		cur, ok := e.cfg.Currency(alloc.Currency)
		if !ok {
			return fmt.Errorf("genesis allocation for %s uses unknown currency %s", alloc.Address, alloc.Currency)
		}
		amount, err := utils.ToBaseUnit(alloc.Amount, cur.Decimals)
		if err != nil {
			return fmt.Errorf("invalid genesis amount %q for %s: %w", alloc.Amount, alloc.Address, err)
		}

		unlock := e.locks.acquire(alloc.Address)
		acc, err := e.accountStore.GetByAddr(alloc.Address)
		if err != nil {
			unlock()
			return fmt.Errorf("could not load genesis account %s: %w", alloc.Address, err)
		}
		if acc != nil && !acc.Balance(cur.Code).IsZero() {
			unlock()
			continue
		}
		if acc == nil {
			acc = types.NewAccount(alloc.Address, e.clock.Now())
		}
		acc.Balances[cur.Code] = amount
		err = e.accountStore.Store(acc)
		unlock()
		if err != nil {
			return fmt.Errorf("could not store genesis account %s: %w", alloc.Address, err)
		}
		logx.Info("LEDGER", fmt.Sprintf("Seeded genesis allocation %s %s to %s", alloc.Amount, cur.Code, alloc.Address))
	}
	return nil
}

// Transfer moves amount of currency between two distinct accounts.
func (e *Engine) Transfer(from, to, currency string, amount *uint256.Int, meta map[string]string) (*transaction.Transaction, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)

	ccy, err := e.currencyCode(currency)
	if err != nil {
		return nil, e.reject(transaction.KindTransfer, err)
	}
	if from == "" || to == "" {
		return nil, e.reject(transaction.KindTransfer, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
	}
	if err := requirePositive(amount); err != nil {
		return nil, e.reject(transaction.KindTransfer, err)
	}
	if from == to {
		return nil, e.reject(transaction.KindTransfer, errors.NewError(errors.ErrCodeInvalidOperation, errors.ErrMsgSelfTransfer))
	}

	unlock := e.locks.acquire(from, to)
	defer unlock()

	if tx, done, err := e.storedResult(transaction.KindTransfer, meta); done {
		if err != nil {
			return nil, e.reject(transaction.KindTransfer, err)
		}
		return tx, nil
	}

	sender, err := e.loadOrCreate(from)
	if err != nil {
		return nil, e.reject(transaction.KindTransfer, err)
	}
	recipient, err := e.loadOrCreate(to)
	if err != nil {
		return nil, e.reject(transaction.KindTransfer, err)
	}

	if sender.Balance(ccy).Cmp(amount) < 0 {
		return nil, e.reject(transaction.KindTransfer, errors.NewError(errors.ErrCodeInsufficientFunds, errors.ErrMsgInsufficientFunds))
	}

	subBalance(sender, ccy, amount)
	addBalance(recipient, ccy, amount)

	participants := []transaction.Participant{
		{Address: from, Currency: ccy, Direction: transaction.DirectionDebit, Amount: amount},
		{Address: to, Currency: ccy, Direction: transaction.DirectionCredit, Amount: amount},
	}
	return e.commit(transaction.KindTransfer, participants, meta, []*types.Account{sender, recipient})
}

// Mint credits newly issued units of a mintable currency to an account.
// This is the only supply-increasing operation.
func (e *Engine) Mint(to, currency string, amount *uint256.Int, reason string, meta map[string]string) (*transaction.Transaction, error) {
	to = strings.TrimSpace(to)

	cur, err := e.currency(currency)
	if err != nil {
		return nil, e.reject(transaction.KindMint, err)
	}
	if !cur.Mintable {
		return nil, e.reject(transaction.KindMint, errors.NewError(errors.ErrCodeUnsupportedCurrency, fmt.Sprintf("Currency %s is not mintable", cur.Code)))
	}
	if to == "" {
		return nil, e.reject(transaction.KindMint, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
	}
	if err := requirePositive(amount); err != nil {
		return nil, e.reject(transaction.KindMint, err)
	}

	if reason != "" {
		meta = withMetaValue(meta, transaction.MetaReason, reason)
	}

	unlock := e.locks.acquire(to)
	defer unlock()

	if tx, done, err := e.storedResult(transaction.KindMint, meta); done {
		if err != nil {
			return nil, e.reject(transaction.KindMint, err)
		}
		return tx, nil
	}

	recipient, err := e.loadOrCreate(to)
	if err != nil {
		return nil, e.reject(transaction.KindMint, err)
	}
	addBalance(recipient, cur.Code, amount)

	participants := []transaction.Participant{
		{Address: to, Currency: cur.Code, Direction: transaction.DirectionCredit, Amount: amount},
	}
	tx, err := e.commit(transaction.KindMint, participants, meta, []*types.Account{recipient})
	if err != nil {
		return nil, err
	}
	monitoring.AddMintedSupply(cur.Code, amount.Float64())
	return tx, nil
}

// FeeSplit settles a gross amount held by a source account into a creator
// cut and a platform cut. The platform cut is rounded half up; the creator
// cut is the exact complement, so the two always sum to the gross.
func (e *Engine) FeeSplit(source, creator, platform, currency string, gross *uint256.Int, feeBps uint32, meta map[string]string) (*transaction.Transaction, error) {
	source = strings.TrimSpace(source)
	creator = strings.TrimSpace(creator)
	platform = strings.TrimSpace(platform)

	ccy, err := e.currencyCode(currency)
	if err != nil {
		return nil, e.reject(transaction.KindFeeSplit, err)
	}
	if source == "" || creator == "" || platform == "" {
		return nil, e.reject(transaction.KindFeeSplit, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
	}
	if err := requirePositive(gross); err != nil {
		return nil, e.reject(transaction.KindFeeSplit, err)
	}
	if feeBps > 10000 {
		return nil, e.reject(transaction.KindFeeSplit, errors.NewError(errors.ErrCodeInvalidOperation, fmt.Sprintf("Fee ratio %d bps exceeds 10000", feeBps)))
	}
	if source == creator || source == platform {
		return nil, e.reject(transaction.KindFeeSplit, errors.NewError(errors.ErrCodeInvalidOperation, "Source account must differ from both destinations"))
	}

	platformCut, ok := utils.ScaleBpsHalfUp(gross, feeBps)
	if !ok {
		return nil, e.reject(transaction.KindFeeSplit, errors.NewError(errors.ErrCodeInvalidAmount, errors.ErrMsgInvalidAmount))
	}
	creatorCut := new(uint256.Int).Sub(gross, platformCut)

	unlock := e.locks.acquire(source, creator, platform)
	defer unlock()

	if tx, done, err := e.storedResult(transaction.KindFeeSplit, meta); done {
		if err != nil {
			return nil, e.reject(transaction.KindFeeSplit, err)
		}
		return tx, nil
	}

	src, err := e.loadOrCreate(source)
	if err != nil {
		return nil, e.reject(transaction.KindFeeSplit, err)
	}
	creatorAcc, err := e.loadOrCreate(creator)
	if err != nil {
		return nil, e.reject(transaction.KindFeeSplit, err)
	}
	// Creator and platform may be the same account; credit one object so
	// neither write clobbers the other.
	platformAcc := creatorAcc
	if platform != creator {
		platformAcc, err = e.loadOrCreate(platform)
		if err != nil {
			return nil, e.reject(transaction.KindFeeSplit, err)
		}
	}

	if src.Balance(ccy).Cmp(gross) < 0 {
		return nil, e.reject(transaction.KindFeeSplit, errors.NewError(errors.ErrCodeInsufficientFunds, errors.ErrMsgInsufficientFunds))
	}

	subBalance(src, ccy, gross)
	addBalance(creatorAcc, ccy, creatorCut)
	addBalance(platformAcc, ccy, platformCut)

	accounts := []*types.Account{src, creatorAcc}
	if platformAcc != creatorAcc {
		accounts = append(accounts, platformAcc)
	}
	participants := []transaction.Participant{
		{Address: source, Currency: ccy, Direction: transaction.DirectionDebit, Amount: gross},
		{Address: creator, Currency: ccy, Direction: transaction.DirectionCredit, Amount: creatorCut},
		{Address: platform, Currency: ccy, Direction: transaction.DirectionCredit, Amount: platformCut},
	}
	return e.commit(transaction.KindFeeSplit, participants, meta, accounts)
}

// StakeLock reclassifies spendable balance into a stake's locked principal.
// The debit has no matching credit; the principal lives in the stake record
// until claim or early withdrawal.
func (e *Engine) StakeLock(addr, currency string, amount *uint256.Int, stakeID string, meta map[string]string) (*transaction.Transaction, error) {
	addr = strings.TrimSpace(addr)

	ccy, err := e.currencyCode(currency)
	if err != nil {
		return nil, e.reject(transaction.KindStakeLock, err)
	}
	if addr == "" {
		return nil, e.reject(transaction.KindStakeLock, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
	}
	if err := requirePositive(amount); err != nil {
		return nil, e.reject(transaction.KindStakeLock, err)
	}

	meta = withMetaValue(meta, transaction.MetaStakeID, stakeID)

	unlock := e.locks.acquire(addr)
	defer unlock()

	if tx, done, err := e.storedResult(transaction.KindStakeLock, meta); done {
		if err != nil {
			return nil, e.reject(transaction.KindStakeLock, err)
		}
		return tx, nil
	}

	acc, err := e.loadOrCreate(addr)
	if err != nil {
		return nil, e.reject(transaction.KindStakeLock, err)
	}
	if acc.Balance(ccy).Cmp(amount) < 0 {
		return nil, e.reject(transaction.KindStakeLock, errors.NewError(errors.ErrCodeInsufficientFunds, errors.ErrMsgInsufficientFunds))
	}
	subBalance(acc, ccy, amount)

	participants := []transaction.Participant{
		{Address: addr, Currency: ccy, Direction: transaction.DirectionDebit, Amount: amount},
	}
	return e.commit(transaction.KindStakeLock, participants, meta, []*types.Account{acc})
}

// StakeClaim returns a matured stake's principal to the spendable balance
// together with the minted reward.
func (e *Engine) StakeClaim(addr, currency string, principal, reward *uint256.Int, stakeID string, meta map[string]string) (*transaction.Transaction, error) {
	addr = strings.TrimSpace(addr)

	ccy, err := e.currencyCode(currency)
	if err != nil {
		return nil, e.reject(transaction.KindStakeClaim, err)
	}
	if addr == "" {
		return nil, e.reject(transaction.KindStakeClaim, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
	}
	if err := requirePositive(principal); err != nil {
		return nil, e.reject(transaction.KindStakeClaim, err)
	}
	if reward == nil {
		reward = uint256.NewInt(0)
	}

	meta = withMetaValue(meta, transaction.MetaStakeID, stakeID)
	credit := new(uint256.Int).Add(principal, reward)

	unlock := e.locks.acquire(addr)
	defer unlock()

	if tx, done, err := e.storedResult(transaction.KindStakeClaim, meta); done {
		if err != nil {
			return nil, e.reject(transaction.KindStakeClaim, err)
		}
		return tx, nil
	}

	acc, err := e.loadOrCreate(addr)
	if err != nil {
		return nil, e.reject(transaction.KindStakeClaim, err)
	}
	addBalance(acc, ccy, credit)

	participants := []transaction.Participant{
		{Address: addr, Currency: ccy, Direction: transaction.DirectionCredit, Amount: credit},
	}
	tx, err := e.commit(transaction.KindStakeClaim, participants, meta, []*types.Account{acc})
	if err != nil {
		return nil, err
	}
	if !reward.IsZero() {
		monitoring.AddMintedSupply(ccy, reward.Float64())
	}
	return tx, nil
}

// StakeEarlyWithdraw returns a stake's principal minus the burned penalty.
func (e *Engine) StakeEarlyWithdraw(addr, currency string, principal, penalty *uint256.Int, stakeID string, meta map[string]string) (*transaction.Transaction, error) {
	addr = strings.TrimSpace(addr)

	ccy, err := e.currencyCode(currency)
	if err != nil {
		return nil, e.reject(transaction.KindStakeEarlyWithdraw, err)
	}
	if addr == "" {
		return nil, e.reject(transaction.KindStakeEarlyWithdraw, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
	}
	if err := requirePositive(principal); err != nil {
		return nil, e.reject(transaction.KindStakeEarlyWithdraw, err)
	}
	if penalty == nil {
		penalty = uint256.NewInt(0)
	}
	if penalty.Cmp(principal) > 0 {
		return nil, e.reject(transaction.KindStakeEarlyWithdraw, errors.NewError(errors.ErrCodeInvalidOperation, "Penalty exceeds locked principal"))
	}

	meta = withMetaValue(meta, transaction.MetaStakeID, stakeID)
	returned := new(uint256.Int).Sub(principal, penalty)

	unlock := e.locks.acquire(addr)
	defer unlock()

	if tx, done, err := e.storedResult(transaction.KindStakeEarlyWithdraw, meta); done {
		if err != nil {
			return nil, e.reject(transaction.KindStakeEarlyWithdraw, err)
		}
		return tx, nil
	}

	acc, err := e.loadOrCreate(addr)
	if err != nil {
		return nil, e.reject(transaction.KindStakeEarlyWithdraw, err)
	}
	addBalance(acc, ccy, returned)

	participants := []transaction.Participant{
		{Address: addr, Currency: ccy, Direction: transaction.DirectionCredit, Amount: returned},
	}
	tx, err := e.commit(transaction.KindStakeEarlyWithdraw, participants, meta, []*types.Account{acc})
	if err != nil {
		return nil, err
	}
	if !penalty.IsZero() {
		monitoring.AddBurnedSupply(ccy, penalty.Float64())
	}
	return tx, nil
}

// Balance returns the spendable balance for addr in the given currency.
// Unknown addresses and unconfigured currencies hold zero; the query
// never rejects, only mutations do.
func (e *Engine) Balance(addr, currency string) (*uint256.Int, error) {
	ccy, err := e.currencyCode(currency)
	if err != nil {
		ccy = strings.ToUpper(strings.TrimSpace(currency))
	}
	acc, err := e.accountStore.GetByAddr(strings.TrimSpace(addr))
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	if acc == nil {
		return uint256.NewInt(0), nil
	}
	return acc.Balance(ccy), nil
}

// Balances returns every currency balance for addr, including zeroes for
// configured currencies the account has never touched.
func (e *Engine) Balances(addr string) (map[string]*uint256.Int, error) {
	acc, err := e.accountStore.GetByAddr(strings.TrimSpace(addr))
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	balances := make(map[string]*uint256.Int, len(e.cfg.Currencies))
	for _, cur := range e.cfg.Currencies {
		if acc != nil {
			balances[cur.Code] = acc.Balance(cur.Code)
		} else {
			balances[cur.Code] = uint256.NewInt(0)
		}
	}
	return balances, nil
}

// GetAccount returns the stored account for addr (nil if never written)
func (e *Engine) GetAccount(addr string) (*types.Account, error) {
	return e.accountStore.GetByAddr(strings.TrimSpace(addr))
}

// AccountExists checks if an account has ever been written
func (e *Engine) AccountExists(addr string) (bool, error) {
	return e.accountStore.ExistsByAddr(strings.TrimSpace(addr))
}

// GetAllAccounts returns every stored account
func (e *Engine) GetAllAccounts() ([]*types.Account, error) {
	accounts, err := e.accountStore.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all accounts: %w", err)
	}
	return accounts, nil
}

// GetTxByID resolves one transaction from the log
func (e *Engine) GetTxByID(txID string) (*transaction.Transaction, error) {
	tx, err := e.txLog.GetByID(txID)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	if tx == nil {
		return nil, errors.NewError(errors.ErrCodeNotFound, errors.ErrMsgTransactionNotFound)
	}
	return tx, nil
}

// GetHistory returns a page of addr's transactions in sequence order along
// with the total count.
func (e *Engine) GetHistory(addr string, limit, offset uint32) (uint32, []*transaction.Transaction, error) {
	total, txs, err := e.txLog.ByAccountPage(strings.TrimSpace(addr), limit, offset)
	if err != nil {
		return 0, nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	return total, txs, nil
}

// StoredRequest exposes the idempotency index so callers that manage state
// of their own, like the stake tracker, can short-circuit replayed requests
// before touching that state. Kind mismatches fail invalid_operation.
func (e *Engine) StoredRequest(kind transaction.Kind, meta map[string]string) (*store.RequestRef, *transaction.Transaction, error) {
	reqID := strings.TrimSpace(meta[transaction.MetaRequestID])
	if reqID == "" {
		return nil, nil, nil
	}
	ref, tx, err := e.txLog.GetByRequestID(reqID)
	if err != nil {
		return nil, nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	if ref == nil {
		return nil, nil, nil
	}
	if ref.Kind != kind {
		return nil, nil, errors.NewError(errors.ErrCodeInvalidOperation, fmt.Sprintf("Request id was already used for a %s operation", ref.Kind))
	}
	return ref, tx, nil
}

// Config returns the ledger configuration the engine runs on
func (e *Engine) Config() *config.LedgerConfig {
	return e.cfg
}

// LatestSeq returns the sequence number of the most recent log entry
func (e *Engine) LatestSeq() uint64 {
	return e.txLog.LatestSeq()
}

// storedResult is the in-operation idempotency check, run after the account
// locks are held. done=true means the caller must return (tx, err) as is.
func (e *Engine) storedResult(kind transaction.Kind, meta map[string]string) (tx *transaction.Transaction, done bool, err error) {
	ref, tx, err := e.StoredRequest(kind, meta)
	if err != nil {
		return nil, true, err
	}
	if ref == nil {
		return nil, false, nil
	}
	logx.Info("LEDGER", fmt.Sprintf("Replayed %s request %s -> tx %s", kind, meta[transaction.MetaRequestID], utils.ShortenLog(ref.TxID)))
	return tx, true, nil
}

// commit builds the transaction, appends it to the log and persists the
// mutated accounts. Called with all participating account locks held.
func (e *Engine) commit(kind transaction.Kind, participants []transaction.Participant, meta map[string]string, accounts []*types.Account) (*transaction.Transaction, error) {
	tx := transaction.New(e.ids.Next(), kind, e.clock.Now(), participants, meta)

	var ref *store.RequestRef
	if tx.RequestID() != "" {
		ref = &store.RequestRef{
			Kind:    kind,
			TxID:    tx.TxID,
			StakeID: tx.Metadata[transaction.MetaStakeID],
		}
	}
	if err := e.txLog.AppendWithRequest(tx, ref); err != nil {
		logx.Error("LEDGER", fmt.Sprintf("Log append failed for %s: %v", kind, err))
		return nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	if err := e.accountStore.StoreBatch(accounts); err != nil {
		logx.Error("LEDGER", fmt.Sprintf("Account write failed after log append for tx %s: %v", tx.TxID, err))
		return nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}

	logx.Info("LEDGER", fmt.Sprintf("Applied %s tx %s seq %d", kind, utils.ShortenLog(tx.TxID), tx.Seq))
	monitoring.IncreaseAppliedTx(string(kind))
	monitoring.SetLogSequence(tx.Seq)
	if e.eventBus != nil {
		e.eventBus.Publish(events.NewTransactionApplied(tx.TxID, string(kind)))
	}
	return tx, nil
}

// reject records a failed precondition before any mutation happened
func (e *Engine) reject(kind transaction.Kind, err error) error {
	code := errors.CodeOf(err)
	monitoring.RecordRejectedOp(string(code))
	if e.eventBus != nil {
		e.eventBus.Publish(events.NewOperationRejected(string(kind), string(code), err.Error()))
	}
	return err
}

// loadOrCreate fetches addr from the store, lazily creating the in-memory
// account on first touch. Called with the account lock held.
func (e *Engine) loadOrCreate(addr string) (*types.Account, error) {
	acc, err := e.accountStore.GetByAddr(addr)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	if acc == nil {
		acc = types.NewAccount(addr, e.clock.Now())
	}
	return acc, nil
}

// currency resolves the configured currency for a code, case-insensitively
func (e *Engine) currency(code string) (config.CurrencyConfig, error) {
	cur, ok := e.cfg.Currency(code)
	if !ok {
		return config.CurrencyConfig{}, errors.NewError(errors.ErrCodeUnsupportedCurrency, errors.ErrMsgUnsupportedCurrency)
	}
	return cur, nil
}

func (e *Engine) currencyCode(code string) (string, error) {
	cur, err := e.currency(code)
	if err != nil {
		return "", err
	}
	return cur.Code, nil
}

func requirePositive(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidAmount, errors.ErrMsgInvalidAmount)
	}
	return nil
}

func addBalance(acc *types.Account, currency string, amount *uint256.Int) {
	cur, ok := acc.Balances[currency]
	if !ok {
		cur = uint256.NewInt(0)
		acc.Balances[currency] = cur
	}
	cur.Add(cur, amount)
}

// subBalance assumes the caller already verified sufficient balance
func subBalance(acc *types.Account, currency string, amount *uint256.Int) {
	cur, ok := acc.Balances[currency]
	if !ok {
		cur = uint256.NewInt(0)
		acc.Balances[currency] = cur
	}
	cur.Sub(cur, amount)
}

// withMetaValue copies meta and sets one key, leaving the caller's map
// untouched
func withMetaValue(meta map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out[key] = value
	return out
}
