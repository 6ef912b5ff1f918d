package store

// Declare database key prefix for objects
const (
	PrefixAccount = "account:"

	PrefixTx        = "tx:"
	PrefixTxSeq     = "txseq:"
	PrefixTxAccount = "txacct:"
	PrefixRequest   = "idem:"

	TxLogMetaKeyLatestSeq = "txlog_meta:latest_seq"

	PrefixStake        = "stake:"
	PrefixStakeAccount = "stakeacct:"

	PrefixFundingGrant = "funding:"
)
