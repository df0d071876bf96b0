package stub

import (
	"context"
	"errors"

	"solforge/internal/solana"
)

// ErrUnavailable simulates an unreachable RPC endpoint.
var ErrUnavailable = errors.New("rpc unavailable")

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	RentExemption map[int]uint64 // size bytes → lamports
	Slot          int64
	BlockTime     *int64
	Epoch         *solana.EpochInfo
	Mints         map[string]*solana.MintInfo
	Accounts      map[string][]solana.TokenAccount // keyed by owner
	Holders       map[string][]solana.TokenHolder  // keyed by mint

	// Fail makes every call return ErrUnavailable.
	Fail bool

	// RentCalls counts MinimumRentExemption invocations, to observe caching.
	RentCalls int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		RentExemption: make(map[int]uint64),
		Mints:         make(map[string]*solana.MintInfo),
		Accounts:      make(map[string][]solana.TokenAccount),
		Holders:       make(map[string][]solana.TokenHolder),
	}
}

// MinimumRentExemption returns the configured rent value for a size.
func (c *RPCClient) MinimumRentExemption(_ context.Context, sizeBytes int) (uint64, error) {
	c.RentCalls++
	if c.Fail {
		return 0, ErrUnavailable
	}
	return c.RentExemption[sizeBytes], nil
}

// GetSlot returns the configured slot.
func (c *RPCClient) GetSlot(_ context.Context) (int64, error) {
	if c.Fail {
		return 0, ErrUnavailable
	}
	return c.Slot, nil
}

// GetBlockTime returns the configured block time.
func (c *RPCClient) GetBlockTime(_ context.Context, _ int64) (*int64, error) {
	if c.Fail {
		return nil, ErrUnavailable
	}
	return c.BlockTime, nil
}

// GetEpochInfo returns the configured epoch info.
func (c *RPCClient) GetEpochInfo(_ context.Context) (*solana.EpochInfo, error) {
	if c.Fail {
		return nil, ErrUnavailable
	}
	return c.Epoch, nil
}

// GetMintInfo returns the configured mint state.
func (c *RPCClient) GetMintInfo(_ context.Context, mint string) (*solana.MintInfo, error) {
	if c.Fail {
		return nil, ErrUnavailable
	}
	return c.Mints[mint], nil
}

// GetTokenAccountsByOwner returns the configured accounts for an owner.
func (c *RPCClient) GetTokenAccountsByOwner(_ context.Context, owner, mint string) ([]solana.TokenAccount, error) {
	if c.Fail {
		return nil, ErrUnavailable
	}
	accounts := c.Accounts[owner]
	if mint == "" {
		return accounts, nil
	}
	var filtered []solana.TokenAccount
	for _, a := range accounts {
		if a.Mint == mint {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// GetTokenLargestAccounts returns the configured holders for a mint.
func (c *RPCClient) GetTokenLargestAccounts(_ context.Context, mint string) ([]solana.TokenHolder, error) {
	if c.Fail {
		return nil, ErrUnavailable
	}
	return c.Holders[mint], nil
}

// Compile-time interface check.
var _ solana.RPCClient = (*RPCClient)(nil)
