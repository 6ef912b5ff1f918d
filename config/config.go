package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// LoadLedgerConfig reads and parses the ledger.yml file
func LoadLedgerConfig(path string) (*LedgerConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("[config] Failed to open file: %v", err)
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		log.Printf("[config] Failed to decode YAML: %v", err)
		return nil, err
	}
	cfg := &cfgFile.Config
	applyLedgerDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Printf("[config] Loaded ledger config: currencies=%d, tiers=%d, genesis allocations=%d", len(cfg.Currencies), len(cfg.StakeTiers), len(cfg.GenesisAllocations))
	return cfg, nil
}

// DefaultLedgerConfig returns the built-in configuration used when no
// ledger.yml is supplied.
func DefaultLedgerConfig() *LedgerConfig {
	cfg := &LedgerConfig{}
	applyLedgerDefaults(cfg)
	return cfg
}

func applyLedgerDefaults(cfg *LedgerConfig) {
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = DefaultCurrencies()
	}
	if cfg.PlatformFeeBps == 0 {
		cfg.PlatformFeeBps = DefaultPlatformFeeBps
	}
	if cfg.EarlyWithdrawPenaltyBps == 0 {
		cfg.EarlyWithdrawPenaltyBps = DefaultEarlyWithdrawPenaltyBps
	}
	if len(cfg.StakeTiers) == 0 {
		cfg.StakeTiers = DefaultStakeTiers()
	}
	if cfg.Funding.Currency == "" {
		cfg.Funding.Currency = DefaultFundingCurrency
	}
	if cfg.Funding.Amount == "" {
		cfg.Funding.Amount = DefaultFundingAmount
	}
	if cfg.Funding.CooldownSeconds == 0 {
		cfg.Funding.CooldownSeconds = DefaultFundingCooldownSeconds
	}
	if cfg.PlatformAddress == "" {
		cfg.PlatformAddress = DefaultPlatformAddress
	}
	if cfg.TreasuryAddress == "" {
		cfg.TreasuryAddress = DefaultTreasuryAddress
	}
}

// Validate rejects configurations the ledger cannot run on.
func (c *LedgerConfig) Validate() error {
	if len(c.Currencies) == 0 {
		return fmt.Errorf("config: at least one currency is required")
	}
	seen := make(map[string]bool, len(c.Currencies))
	for _, cur := range c.Currencies {
		code := strings.ToUpper(strings.TrimSpace(cur.Code))
		if code == "" {
			return fmt.Errorf("config: currency code must not be empty")
		}
		if seen[code] {
			return fmt.Errorf("config: duplicate currency %s", code)
		}
		seen[code] = true
		if cur.Decimals < 0 || cur.Decimals > 18 {
			return fmt.Errorf("config: currency %s has invalid decimals %d", code, cur.Decimals)
		}
	}
	if c.PlatformFeeBps > 10000 {
		return fmt.Errorf("config: platform_fee_bps %d exceeds 10000", c.PlatformFeeBps)
	}
	if c.EarlyWithdrawPenaltyBps > 10000 {
		return fmt.Errorf("config: early_withdraw_penalty_bps %d exceeds 10000", c.EarlyWithdrawPenaltyBps)
	}
	if len(c.StakeTiers) == 0 {
		return fmt.Errorf("config: at least one stake tier is required")
	}
	if c.StakeTiers[0].MinDays != 0 {
		return fmt.Errorf("config: first stake tier must start at 0 days")
	}
	for i := 1; i < len(c.StakeTiers); i++ {
		if c.StakeTiers[i].MinDays <= c.StakeTiers[i-1].MinDays {
			return fmt.Errorf("config: stake tiers must be sorted by min_days ascending")
		}
	}
	for _, tier := range c.StakeTiers {
		if tier.AnnualRateBps > 10000 {
			return fmt.Errorf("config: stake tier at %d days has invalid rate %d bps", tier.MinDays, tier.AnnualRateBps)
		}
	}
	if !seen[strings.ToUpper(c.Funding.Currency)] {
		return fmt.Errorf("config: funding currency %s is not configured", c.Funding.Currency)
	}
	for _, alloc := range c.GenesisAllocations {
		if alloc.Address == "" {
			return fmt.Errorf("config: genesis allocation address must not be empty")
		}
		if !seen[strings.ToUpper(alloc.Currency)] {
			return fmt.Errorf("config: genesis allocation currency %s is not configured", alloc.Currency)
		}
	}
	return nil
}

// Currency looks up a currency definition by code (case-insensitive).
func (c *LedgerConfig) Currency(code string) (CurrencyConfig, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, cur := range c.Currencies {
		if strings.ToUpper(cur.Code) == code {
			return cur, true
		}
	}
	return CurrencyConfig{}, false
}

// RateBpsFor resolves the annual reward rate for a lock duration. The
// last tier whose MinDays is at or below the duration wins.
func (c *LedgerConfig) RateBpsFor(durationDays uint32) uint32 {
	rate := c.StakeTiers[0].AnnualRateBps
	for _, tier := range c.StakeTiers {
		if durationDays >= tier.MinDays {
			rate = tier.AnnualRateBps
		}
	}
	return rate
}

// LoadNodeConfig reads every section of a node.ini file
func LoadNodeConfig(path string) (*NodeConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	nodeCfg := DefaultNodeConfig()
	if err := cfg.Section("node").MapTo(&nodeCfg.Server); err != nil {
		return nil, err
	}
	if err := cfg.Section("db").MapTo(&nodeCfg.DB); err != nil {
		return nil, err
	}
	if err := cfg.Section("log").MapTo(&nodeCfg.Log); err != nil {
		return nil, err
	}
	if err := cfg.Section("cors").MapTo(&nodeCfg.CORS); err != nil {
		return nil, err
	}
	return nodeCfg, nil
}

// DefaultNodeConfig returns the node settings used when no node.ini is
// supplied.
func DefaultNodeConfig() *NodeConfig {
	return &NodeConfig{
		Server: ServerConfig{
			ListenRPC:  DefaultListenRPC,
			ListenREST: DefaultListenREST,
			DataDir:    DefaultDataDir,
		},
		DB: DBConfig{
			Backend: DefaultDBBackend,
		},
		Log: LogConfig{
			File:       DefaultLogFile,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
		CORS: CORSConfig{
			AllowedOrigins: DefaultCORSAllowedOrigins,
		},
	}
}
