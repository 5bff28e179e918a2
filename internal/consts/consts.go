package consts

const (
	CurrencySOL  = "SOL"
	CurrencyUSDC = "USDC"
	CurrencyETH  = "ETH"
	CurrencyBTC  = "BTC"

	ChainSolana   = "SOL"
	ChainEthereum = "ETH"
	ChainBitcoin  = "BTC"

	SOL_DECIMALS  = 9
	USDC_DECIMALS = 6
	ETH_DECIMALS  = 18
	BTC_DECIMALS  = 8

	// MaxInputDecimals bounds the precision accepted from user input.
	MaxInputDecimals = 8
)

// currencyInfo describes how a currency settles on chain.
type currencyInfo struct {
	chain    string
	decimals int
}

var currencies = map[string]currencyInfo{
	CurrencySOL:  {chain: ChainSolana, decimals: SOL_DECIMALS},
	CurrencyUSDC: {chain: ChainSolana, decimals: USDC_DECIMALS},
	CurrencyETH:  {chain: ChainEthereum, decimals: ETH_DECIMALS},
	CurrencyBTC:  {chain: ChainBitcoin, decimals: BTC_DECIMALS},
}

// ChainOf returns the chain tag a currency settles on.
func ChainOf(currency string) (string, bool) {
	info, ok := currencies[currency]
	return info.chain, ok
}

// DecimalsOf returns the number of decimals of the smallest unit of a currency.
func DecimalsOf(currency string) (int, bool) {
	info, ok := currencies[currency]
	return info.decimals, ok
}

// Audit actions
const (
	AuditWithdrawalRequested = "withdrawal_requested"
	AuditWithdrawalApproved  = "withdrawal_approved"
	AuditWithdrawalRejected  = "withdrawal_rejected"
	AuditWithdrawalExpired   = "withdrawal_expired"
	AuditMultiSigCreated     = "multisig_created"
	AuditProposalCreated     = "multisig_proposal_created"
	AuditProposalApproved    = "multisig_proposal_approved"
	AuditProposalRejected    = "multisig_proposal_rejected"
	AuditProposalExpired     = "multisig_proposal_expired"
	// reconcile actions flag transfers whose signer outcome was never stored
	AuditWithdrawalReconcile = "withdrawal_reconcile_required"
	AuditProposalReconcile   = "multisig_proposal_reconcile_required"
)

// ReconcileReason is stored on records the sweeps fail because no outcome was recorded.
const ReconcileReason = "transfer outcome not recorded, reconcile with the signer service"

// Request context keys set by the auth middleware
const (
	ContextKeyActor = "actor"
	ContextKeyRole  = "role"

	HeaderUserID = "X-User-ID"
)

// Token roles
const (
	RoleBot   = "bot"
	RoleAdmin = "admin"
)
