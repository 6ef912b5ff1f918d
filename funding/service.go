package funding

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/db"
	"github.com/ch0002ic/creatorcoin-ai/errors"
	"github.com/ch0002ic/creatorcoin-ai/events"
	"github.com/ch0002ic/creatorcoin-ai/ledger"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/monitoring"
	"github.com/ch0002ic/creatorcoin-ai/store"
	"github.com/ch0002ic/creatorcoin-ai/transaction"
	"github.com/ch0002ic/creatorcoin-ai/types"
	"github.com/ch0002ic/creatorcoin-ai/utils"
)

// Service hands out fixed development grants of the funding currency, one
// per address per cooldown window. Grants are ordinary mints, so they show
// up in the transaction log like any other operation.
type Service struct {
	cfg      *config.LedgerConfig
	engine   *ledger.Engine
	provider db.DatabaseProvider
	eventBus *events.EventBus
	clock    types.Clock

	mu     sync.Mutex
	amount *uint256.Int
}

func NewService(cfg *config.LedgerConfig, engine *ledger.Engine, provider db.DatabaseProvider, eventBus *events.EventBus, clock types.Clock) (*Service, error) {
	if clock == nil {
		clock = types.SystemClock{}
	}
	cur, ok := cfg.Currency(cfg.Funding.Currency)
	if !ok {
		return nil, fmt.Errorf("funding currency %s is not configured", cfg.Funding.Currency)
	}
	amount, err := utils.ToBaseUnit(cfg.Funding.Amount, cur.Decimals)
	if err != nil {
		return nil, fmt.Errorf("invalid funding amount %q: %w", cfg.Funding.Amount, err)
	}
	return &Service{
		cfg:      cfg,
		engine:   engine,
		provider: provider,
		eventBus: eventBus,
		clock:    clock,
		amount:   amount,
	}, nil
}

// Request grants the configured amount to addr, or fails cooldown_active
// when the address was funded within the cooldown window.
func (s *Service) Request(addr string, meta map[string]string) (*transaction.Transaction, error) {
	addr = strings.TrimSpace(addr)
	if !s.cfg.Funding.Enabled {
		return nil, errors.NewError(errors.ErrCodeInvalidOperation, "Funding is disabled")
	}
	if addr == "" {
		return nil, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	last, found, err := s.lastGrant(addr)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	if found {
		elapsed := now.Sub(last)
		cooldown := time.Duration(s.cfg.Funding.CooldownSeconds) * time.Second
		if elapsed < cooldown {
			remaining := cooldown - elapsed
			return nil, errors.NewError(errors.ErrCodeCooldownActive, fmt.Sprintf("%s, retry in %s", errors.ErrMsgCooldownActive, remaining.Round(time.Second)))
		}
	}

	tx, err := s.engine.Mint(addr, s.cfg.Funding.Currency, s.amount, "funding", meta)
	if err != nil {
		return nil, err
	}

	if err := s.provider.Put(grantKey(addr), []byte(strconv.FormatInt(now.Unix(), 10))); err != nil {
		logx.Error("FUNDING", fmt.Sprintf("Failed to record grant time for %s: %v", addr, err))
	}

	monitoring.IncreaseFundingGrants()
	if s.eventBus != nil {
		s.eventBus.Publish(events.NewFundingGranted(tx.TxID, addr, s.cfg.Funding.Amount))
	}
	logx.Info("FUNDING", fmt.Sprintf("Granted %s %s to %s", s.cfg.Funding.Amount, s.cfg.Funding.Currency, addr))
	return tx, nil
}

// CooldownRemaining reports how long addr must wait before the next grant,
// zero when a grant is available now.
func (s *Service) CooldownRemaining(addr string) (time.Duration, error) {
	addr = strings.TrimSpace(addr)

	s.mu.Lock()
	defer s.mu.Unlock()

	last, found, err := s.lastGrant(addr)
	if err != nil {
		return 0, errors.NewError(errors.ErrCodeInternal, errors.ErrMsgInternal)
	}
	if !found {
		return 0, nil
	}
	cooldown := time.Duration(s.cfg.Funding.CooldownSeconds) * time.Second
	remaining := cooldown - s.clock.Now().Sub(last)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func (s *Service) lastGrant(addr string) (time.Time, bool, error) {
	data, err := s.provider.Get(grantKey(addr))
	if err != nil {
		return time.Time{}, false, err
	}
	if data == nil {
		return time.Time{}, false, nil
	}
	unix, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt grant time for %s: %w", addr, err)
	}
	return time.Unix(unix, 0), true, nil
}

func grantKey(addr string) []byte {
	return []byte(store.PrefixFundingGrant + addr)
}
