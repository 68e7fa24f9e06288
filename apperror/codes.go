package apperror

// Code identifies a failure class. Every component fails with a specific
// code; callers add step context but never downgrade to a generic error.
type Code string

const (
	CodeAlreadyInitialized     Code = "ALREADY_INITIALIZED"
	CodeUnauthorized           Code = "UNAUTHORIZED"
	CodeReentrancyGuard        Code = "REENTRANCY_GUARD"
	CodeInvalidFlashLoanAmount Code = "INVALID_FLASH_LOAN_AMOUNT"
	CodeInsufficientLiquidity  Code = "INSUFFICIENT_LIQUIDITY"
	CodeSlippageExceeded       Code = "SLIPPAGE_EXCEEDED"
	CodeInvalidRoute           Code = "INVALID_ROUTE"
	CodeSwapFailed             Code = "SWAP_FAILED"
	CodeRepaymentFailed        Code = "REPAYMENT_FAILED"
	CodeNoProfitGenerated      Code = "NO_PROFIT_GENERATED"
	CodeProfitBelowThreshold   Code = "PROFIT_BELOW_THRESHOLD"
	CodeInvalidPoolAddress     Code = "INVALID_POOL_ADDRESS"
	CodeInvalidTokenAddress    Code = "INVALID_TOKEN_ADDRESS"
	CodeArithmeticOverflow     Code = "ARITHMETIC_OVERFLOW"
	CodeContractPaused         Code = "CONTRACT_PAUSED"
	CodeInvalidWithdrawAmount  Code = "INVALID_WITHDRAW_AMOUNT"
)
