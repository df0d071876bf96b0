package solana

import "context"

// TokenProgramID is the SPL token program address.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// RPCClient defines the Solana RPC HTTP interface the service depends on.
// MinimumRentExemption is the only call the staging engine itself makes;
// the rest back the pass-through query endpoints.
type RPCClient interface {
	// MinimumRentExemption returns the lamports an account of the given size
	// must hold to persist indefinitely.
	MinimumRentExemption(ctx context.Context, sizeBytes int) (uint64, error)

	// GetSlot retrieves the current slot.
	GetSlot(ctx context.Context) (int64, error)

	// GetBlockTime retrieves the estimated production time of a block.
	GetBlockTime(ctx context.Context, slot int64) (*int64, error)

	// GetEpochInfo retrieves current epoch progress.
	GetEpochInfo(ctx context.Context) (*EpochInfo, error)

	// GetMintInfo retrieves parsed mint account state. Returns nil if the
	// account does not exist.
	GetMintInfo(ctx context.Context, mint string) (*MintInfo, error)

	// GetTokenAccountsByOwner retrieves parsed token accounts for a wallet,
	// optionally filtered by mint (empty mint = all SPL token accounts).
	GetTokenAccountsByOwner(ctx context.Context, owner, mint string) ([]TokenAccount, error)

	// GetTokenLargestAccounts retrieves the 20 largest holders of a mint.
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenHolder, error)
}

// EpochInfo represents current epoch progress.
type EpochInfo struct {
	Epoch        int64 `json:"epoch"`
	SlotIndex    int64 `json:"slotIndex"`
	SlotsInEpoch int64 `json:"slotsInEpoch"`
	AbsoluteSlot int64 `json:"absoluteSlot"`
}

// MintInfo represents parsed SPL mint account state.
type MintInfo struct {
	Address         string  `json:"address"`
	Decimals        int     `json:"decimals"`
	Supply          string  `json:"supply"` // base units as decimal string
	MintAuthority   *string `json:"mintAuthority"`
	FreezeAuthority *string `json:"freezeAuthority"`
	IsInitialized   bool    `json:"isInitialized"`
}

// TokenAccount represents a parsed SPL token account balance.
type TokenAccount struct {
	TokenAccount string  `json:"tokenAccount"` // account address (base58)
	Mint         string  `json:"mint"`
	Amount       string  `json:"amount"` // base units as decimal string
	UIAmount     float64 `json:"uiAmount"`
	Decimals     int     `json:"decimals"`
}

// TokenHolder represents one entry of getTokenLargestAccounts.
type TokenHolder struct {
	Address  string  `json:"address"`
	Amount   string  `json:"amount"`
	UIAmount float64 `json:"uiAmount"`
}
