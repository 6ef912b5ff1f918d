package staking

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/errors"
	"github.com/ch0002ic/creatorcoin-ai/events"
	"github.com/ch0002ic/creatorcoin-ai/ledger"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/monitoring"
	"github.com/ch0002ic/creatorcoin-ai/transaction"
	"github.com/ch0002ic/creatorcoin-ai/types"
	"github.com/ch0002ic/creatorcoin-ai/utils"
)

// StakeTracker owns stake records and their status transitions. All balance
// movement goes through the ledger engine, so stake operations share the
// same transaction log and idempotency index as every other operation.
type StakeTracker struct {
	cfg      *config.LedgerConfig
	engine   *ledger.Engine
	stakes   StakeStore
	eventBus *events.EventBus
	clock    types.Clock
	ids      *utils.IDGenerator

	mu         sync.Mutex
	stakeLocks map[string]*sync.Mutex

	gaugeMu         sync.Mutex
	activeCount     int
	lockedPrincipal *uint256.Int
}

// NewStakeTracker scans existing records once to seed the stake gauges,
// then tracks them incrementally.
func NewStakeTracker(cfg *config.LedgerConfig, engine *ledger.Engine, stakes StakeStore, eventBus *events.EventBus, clock types.Clock) (*StakeTracker, error) {
	if clock == nil {
		clock = types.SystemClock{}
	}
	t := &StakeTracker{
		cfg:             cfg,
		engine:          engine,
		stakes:          stakes,
		eventBus:        eventBus,
		clock:           clock,
		ids:             utils.NewIDGenerator(clock),
		stakeLocks:      make(map[string]*sync.Mutex),
		lockedPrincipal: uint256.NewInt(0),
	}

	records, err := stakes.ListAll()
	if err != nil {
		return nil, fmt.Errorf("could not scan stake records: %w", err)
	}
	for _, record := range records {
		if record.Status == StatusActive {
			t.activeCount++
			t.lockedPrincipal.Add(t.lockedPrincipal, record.Amount)
		}
	}
	t.publishGauges()
	return t, nil
}

// Stake locks amount of CCOIN for durationDays and opens an ACTIVE record.
// The annual rate is fixed from the tier table at lock time and never
// changes afterwards.
func (t *StakeTracker) Stake(addr string, amount *uint256.Int, durationDays uint32, meta map[string]string) (*StakeRecord, *transaction.Transaction, error) {
	addr = strings.TrimSpace(addr)
	if durationDays == 0 {
		return nil, nil, errors.NewError(errors.ErrCodeInvalidOperation, "Lock duration must be at least one day")
	}

	// Replayed request: hand back the original result
	if ref, storedTx, err := t.engine.StoredRequest(transaction.KindStakeLock, meta); err != nil {
		return nil, nil, err
	} else if ref != nil {
		record, err := t.loadStake(ref.StakeID)
		if err != nil {
			return nil, nil, err
		}
		return record, storedTx, nil
	}

	rate := t.cfg.RateBpsFor(durationDays)
	stakeID := t.ids.Next()

	tx, err := t.engine.StakeLock(addr, config.CurrencyCCOIN, amount, stakeID, meta)
	if err != nil {
		return nil, nil, err
	}
	// A concurrent retry can reach the engine first; the replayed lock
	// carries the winner's stake id.
	if winner := tx.StakeID(); winner != stakeID {
		record, err := t.loadStake(winner)
		if err != nil {
			return nil, nil, err
		}
		return record, tx, nil
	}

	start := tx.Timestamp
	record := &StakeRecord{
		StakeID:       stakeID,
		Address:       addr,
		Amount:        new(uint256.Int).Set(amount),
		StartTime:     start,
		MaturityTime:  start.Add(time.Duration(durationDays) * 24 * time.Hour),
		DurationDays:  durationDays,
		AnnualRateBps: rate,
		Status:        StatusActive,
	}
	if err := t.stakes.Store(record); err != nil {
		logx.Error("STAKE_TRACKER", fmt.Sprintf("Failed to store stake %s after locking principal: %v", stakeID, err))
		return nil, nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}

	t.adjustGauges(1, amount, nil)
	if t.eventBus != nil {
		t.eventBus.Publish(events.NewStakeStatusChanged(tx.TxID, stakeID, addr, string(StatusActive)))
	}
	logx.Info("STAKE_TRACKER", fmt.Sprintf("Locked stake %s for %s: %d days at %d bps", utils.ShortenLog(stakeID), addr, durationDays, rate))
	return record, tx, nil
}

// Claim finalizes a matured stake: the principal returns to the spendable
// balance and the reward is minted on top.
func (t *StakeTracker) Claim(stakeID string, meta map[string]string) (*StakeRecord, *transaction.Transaction, error) {
	unlock := t.lockStake(stakeID)
	defer unlock()

	// Replayed request first, so a retry of a finalized claim returns the
	// original result instead of already_finalized
	if ref, storedTx, err := t.engine.StoredRequest(transaction.KindStakeClaim, meta); err != nil {
		return nil, nil, err
	} else if ref != nil {
		if ref.StakeID != stakeID {
			return nil, nil, errors.NewError(errors.ErrCodeInvalidOperation, fmt.Sprintf("Request id was already used for stake %s", ref.StakeID))
		}
		record, err := t.loadStake(stakeID)
		if err != nil {
			return nil, nil, err
		}
		return record, storedTx, nil
	}

	record, err := t.loadStake(stakeID)
	if err != nil {
		return nil, nil, err
	}
	if record.Status.Finalized() {
		return nil, nil, errors.NewError(errors.ErrCodeAlreadyFinalized, errors.ErrMsgAlreadyFinalized)
	}
	if !record.Matured(t.clock.Now()) {
		return nil, nil, errors.NewError(errors.ErrCodeInvalidOperation, errors.ErrMsgNotYetMatured)
	}

	reward, ok := utils.StakeReward(record.Amount, record.AnnualRateBps, record.DurationDays)
	if !ok {
		return nil, nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}

	tx, err := t.engine.StakeClaim(record.Address, config.CurrencyCCOIN, record.Amount, reward, stakeID, meta)
	if err != nil {
		return nil, nil, err
	}
	if winner := tx.StakeID(); winner != stakeID {
		return nil, nil, errors.NewError(errors.ErrCodeInvalidOperation, fmt.Sprintf("Request id was already used for stake %s", winner))
	}

	finalized := tx.Timestamp
	record.Status = StatusMaturedClaimed
	record.Reward = reward
	record.FinalTxID = tx.TxID
	record.FinalizedAt = &finalized
	if err := t.stakes.Store(record); err != nil {
		logx.Error("STAKE_TRACKER", fmt.Sprintf("Failed to finalize stake %s after claim: %v", stakeID, err))
		return nil, nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}

	t.adjustGauges(-1, nil, record.Amount)
	if t.eventBus != nil {
		t.eventBus.Publish(events.NewStakeStatusChanged(tx.TxID, stakeID, record.Address, string(StatusMaturedClaimed)))
	}
	logx.Info("STAKE_TRACKER", fmt.Sprintf("Claimed stake %s for %s with reward %s", utils.ShortenLog(stakeID), record.Address, reward.Dec()))
	return record, tx, nil
}

// WithdrawEarly finalizes an ACTIVE stake before maturity. The penalty cut
// of the principal is burned; the rest returns to the spendable balance.
func (t *StakeTracker) WithdrawEarly(stakeID string, meta map[string]string) (*StakeRecord, *transaction.Transaction, error) {
	unlock := t.lockStake(stakeID)
	defer unlock()

	if ref, storedTx, err := t.engine.StoredRequest(transaction.KindStakeEarlyWithdraw, meta); err != nil {
		return nil, nil, err
	} else if ref != nil {
		if ref.StakeID != stakeID {
			return nil, nil, errors.NewError(errors.ErrCodeInvalidOperation, fmt.Sprintf("Request id was already used for stake %s", ref.StakeID))
		}
		record, err := t.loadStake(stakeID)
		if err != nil {
			return nil, nil, err
		}
		return record, storedTx, nil
	}

	record, err := t.loadStake(stakeID)
	if err != nil {
		return nil, nil, err
	}
	if record.Status.Finalized() {
		return nil, nil, errors.NewError(errors.ErrCodeAlreadyFinalized, errors.ErrMsgAlreadyFinalized)
	}

	penalty, ok := utils.ScaleBpsHalfUp(record.Amount, t.cfg.EarlyWithdrawPenaltyBps)
	if !ok {
		return nil, nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}

	tx, err := t.engine.StakeEarlyWithdraw(record.Address, config.CurrencyCCOIN, record.Amount, penalty, stakeID, meta)
	if err != nil {
		return nil, nil, err
	}
	if winner := tx.StakeID(); winner != stakeID {
		return nil, nil, errors.NewError(errors.ErrCodeInvalidOperation, fmt.Sprintf("Request id was already used for stake %s", winner))
	}

	finalized := tx.Timestamp
	record.Status = StatusWithdrawnEarly
	record.Penalty = penalty
	record.FinalTxID = tx.TxID
	record.FinalizedAt = &finalized
	if err := t.stakes.Store(record); err != nil {
		logx.Error("STAKE_TRACKER", fmt.Sprintf("Failed to finalize stake %s after early withdrawal: %v", stakeID, err))
		return nil, nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}

	t.adjustGauges(-1, nil, record.Amount)
	if t.eventBus != nil {
		t.eventBus.Publish(events.NewStakeStatusChanged(tx.TxID, stakeID, record.Address, string(StatusWithdrawnEarly)))
	}
	logx.Info("STAKE_TRACKER", fmt.Sprintf("Early withdrawal of stake %s for %s with penalty %s burned", utils.ShortenLog(stakeID), record.Address, penalty.Dec()))
	return record, tx, nil
}

// Get returns one stake record
func (t *StakeTracker) Get(stakeID string) (*StakeRecord, error) {
	return t.loadStake(stakeID)
}

// ListByAccount returns addr's stake records in creation order
func (t *StakeTracker) ListByAccount(addr string) ([]*StakeRecord, error) {
	records, err := t.stakes.ListByAddress(strings.TrimSpace(addr))
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	return records, nil
}

func (t *StakeTracker) loadStake(stakeID string) (*StakeRecord, error) {
	record, err := t.stakes.GetByID(stakeID)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	if record == nil {
		return nil, errors.NewError(errors.ErrCodeNotFound, errors.ErrMsgStakeNotFound)
	}
	return record, nil
}

// lockStake serializes transitions per stake id
func (t *StakeTracker) lockStake(stakeID string) func() {
	t.mu.Lock()
	l, ok := t.stakeLocks[stakeID]
	if !ok {
		l = &sync.Mutex{}
		t.stakeLocks[stakeID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (t *StakeTracker) adjustGauges(countDelta int, lock, release *uint256.Int) {
	t.gaugeMu.Lock()
	t.activeCount += countDelta
	if lock != nil {
		t.lockedPrincipal.Add(t.lockedPrincipal, lock)
	}
	if release != nil {
		t.lockedPrincipal.Sub(t.lockedPrincipal, release)
	}
	t.gaugeMu.Unlock()

	t.publishGauges()
}

func (t *StakeTracker) publishGauges() {
	t.gaugeMu.Lock()
	count := t.activeCount
	principal := t.lockedPrincipal.Float64()
	t.gaugeMu.Unlock()

	monitoring.SetActiveStakes(count)
	monitoring.SetLockedPrincipal(principal)
}
