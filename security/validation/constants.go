package validation

const (
	MaxShortTextLength = 128
	MaxLongTextLength  = 5120

	DefaultRequestBodyLimit = 128 * 1024 // 128 KB

	// Account addresses are base58 strings in the 32-byte key range
	MinAddressLength = 32
	MaxAddressLength = 44

	MaxMetadataEntries = 16

	// Short text fields:
	SenderField    = "sender"
	RecipientField = "recipient"
	AddressField   = "address"
	AmountField    = "amount"
	CurrencyField  = "currency"
	ReasonField    = "reason"
	RequestIDField = "request_id"
	StakeIDField   = "stake_id"
	TxIDField      = "tx_id"
)

var InjectionPatterns = []string{
	"${{", "{{", "}}", "${", "#{", "{%", "%}", "{{{", // templates/SSTI
	"%0a", "%0d", "%0a%0d", "%00", "%27", "%22", "%3c", "%3e", // encoded attacks (decode first)
	"${jndi:", "ldap://", "ldaps://", // JNDI/ldap
	"eval(", "exec(", "system(", "popen(", // dangerous funcs
}
