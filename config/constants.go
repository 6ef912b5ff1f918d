package config

const (
	CurrencySOL   = "SOL"
	CurrencyUSDC  = "USDC"
	CurrencyCCOIN = "CCOIN"

	DefaultPlatformFeeBps          = 500
	DefaultEarlyWithdrawPenaltyBps = 1000

	DefaultFundingCurrency        = CurrencyCCOIN
	DefaultFundingAmount          = "100"
	DefaultFundingCooldownSeconds = 86400

	DefaultPlatformAddress = "CCPLAT111111111111111111111111111111111111"
	DefaultTreasuryAddress = "CCTREASURY11111111111111111111111111111111"

	DefaultListenRPC  = ":9000"
	DefaultListenREST = ":8080"
	DefaultDataDir    = "./data"
	DefaultDBBackend  = "leveldb"

	DefaultLogFile       = "./logs/creatorcoin.log"
	DefaultLogMaxSizeMB  = 100
	DefaultLogMaxAgeDays = 30

	DefaultCORSAllowedOrigins = "*"
)

// DefaultCurrencies returns the built-in currency set. CCOIN is the only
// mintable currency; SOL and USDC balances enter the ledger through
// genesis allocations or transfers.
func DefaultCurrencies() []CurrencyConfig {
	return []CurrencyConfig{
		{Code: CurrencySOL, Decimals: 9, Mintable: false},
		{Code: CurrencyUSDC, Decimals: 6, Mintable: false},
		{Code: CurrencyCCOIN, Decimals: 6, Mintable: true},
	}
}

// DefaultStakeTiers returns the built-in lock-duration reward table.
func DefaultStakeTiers() []StakeTierConfig {
	return []StakeTierConfig{
		{MinDays: 0, AnnualRateBps: 600},
		{MinDays: 30, AnnualRateBps: 850},
		{MinDays: 90, AnnualRateBps: 950},
		{MinDays: 180, AnnualRateBps: 1050},
		{MinDays: 365, AnnualRateBps: 1200},
	}
}
