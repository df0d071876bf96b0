package domain

// PoolTypeAMMV4 is the constant-product pool variant staged pools target.
const PoolTypeAMMV4 = "AMM-V4"

// LiquidityPoolIntent is a client request to initialize a liquidity pool.
type LiquidityPoolIntent struct {
	TokenMint   string `json:"tokenMint"`      // base token mint (base58)
	QuoteMint   string `json:"quoteMint"`      // quote mint, usually SOL or USDC (base58)
	TokenAmount uint64 `json:"tokenAmount"`    // base token deposit in base units
	QuoteAmount uint64 `json:"quoteAmount"`    // quote token deposit in base units
	Owner       string `json:"ownerPublicKey"` // pool owner wallet (base58)
}

// StagedPool describes a prepared liquidity-pool initialization.
// Stateless, never persisted.
type StagedPool struct {
	TokenMint         string  `json:"tokenMint"`
	QuoteMint         string  `json:"quoteMint"`
	TokenAmount       uint64  `json:"tokenAmount"`
	QuoteAmount       uint64  `json:"quoteAmount"`
	InitialPrice      float64 `json:"initialPrice"`      // QuoteAmount / TokenAmount
	EstimatedLPTokens float64 `json:"estimatedLpTokens"` // sqrt(TokenAmount × QuoteAmount)
	PoolType          string  `json:"poolType"`          // always PoolTypeAMMV4
}
