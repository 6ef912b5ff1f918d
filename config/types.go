package config

// CurrencyConfig describes one currency the ledger tracks.
type CurrencyConfig struct {
	Code     string `yaml:"code"`
	Decimals int32  `yaml:"decimals"`
	Mintable bool   `yaml:"mintable"`
}

// StakeTierConfig maps a minimum lock duration to an annual reward rate.
// Tiers are sorted by MinDays ascending; the last tier whose MinDays is
// at or below the requested duration wins.
type StakeTierConfig struct {
	MinDays       uint32 `yaml:"min_days"`
	AnnualRateBps uint32 `yaml:"annual_rate_bps"`
}

// FundingConfig controls the dev-funding endpoint.
type FundingConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Currency        string `yaml:"currency"`
	Amount          string `yaml:"amount"`
	CooldownSeconds int64  `yaml:"cooldown_seconds"`
}

// GenesisAllocation seeds one account balance at first boot.
// Amount is a human-readable decimal string in the currency's major unit.
type GenesisAllocation struct {
	Address  string `yaml:"address"`
	Currency string `yaml:"currency"`
	Amount   string `yaml:"amount"`
}

// LedgerConfig holds the configuration from ledger.yml
type LedgerConfig struct {
	Currencies              []CurrencyConfig    `yaml:"currencies"`
	PlatformFeeBps          uint32              `yaml:"platform_fee_bps"`
	EarlyWithdrawPenaltyBps uint32              `yaml:"early_withdraw_penalty_bps"`
	StakeTiers              []StakeTierConfig   `yaml:"stake_tiers"`
	Funding                 FundingConfig       `yaml:"funding"`
	PlatformAddress         string              `yaml:"platform_address"`
	TreasuryAddress         string              `yaml:"treasury_address"`
	GenesisAllocations      []GenesisAllocation `yaml:"genesis_allocations"`
}

// ConfigFile is the top-level structure for ledger.yml
type ConfigFile struct {
	Config LedgerConfig `yaml:"config"`
}

// ServerConfig is the [node] section of node.ini
type ServerConfig struct {
	ListenRPC  string `ini:"listen_rpc"`
	ListenREST string `ini:"listen_rest"`
	DataDir    string `ini:"data_dir"`
}

// DBConfig is the [db] section of node.ini
type DBConfig struct {
	Backend   string `ini:"backend"`
	Path      string `ini:"path"`
	RedisAddr string `ini:"redis_addr"`
}

// LogConfig is the [log] section of node.ini
type LogConfig struct {
	File       string `ini:"file"`
	MaxSizeMB  int    `ini:"max_size_mb"`
	MaxAgeDays int    `ini:"max_age_days"`
}

// CORSConfig is the [cors] section of node.ini
type CORSConfig struct {
	AllowedOrigins string `ini:"allowed_origins"`
}

// NodeConfig groups every node.ini section.
type NodeConfig struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	CORS   CORSConfig
}
