package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"solforge/internal/observability"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPClient implements RPCClient using HTTP JSON-RPC 2.0.
type HTTPClient struct {
	endpoint    string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	requestID   atomic.Uint64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new Solana RPC HTTP client.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ RPCClient = (*HTTPClient)(nil)

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a JSON-RPC call with retries and exponential backoff.
// Latency is recorded per method across all attempts.
func (c *HTTPClient) call(ctx context.Context, method string, params []interface{}, result interface{}) (err error) {
	start := time.Now()
	defer func() {
		observability.RecordRPCCall(method, time.Since(start).Seconds(), err)
	}()

	reqID := c.requestID.Add(1)
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		// Handle rate limiting
		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(respBody, &rpcResp); err != nil {
			lastErr = fmt.Errorf("unmarshal response: %w", err)
			continue
		}

		if rpcResp.Error != nil {
			// RPC errors are not retried
			return rpcResp.Error
		}

		if result != nil && rpcResp.Result != nil {
			if err := json.Unmarshal(rpcResp.Result, result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// MinimumRentExemption returns the lamports an account of the given size must
// hold to persist indefinitely.
func (c *HTTPClient) MinimumRentExemption(ctx context.Context, sizeBytes int) (uint64, error) {
	params := []interface{}{sizeBytes}
	var result uint64
	if err := c.call(ctx, "getMinimumBalanceForRentExemption", params, &result); err != nil {
		return 0, err
	}
	return result, nil
}

// GetSlot retrieves the current slot.
func (c *HTTPClient) GetSlot(ctx context.Context) (int64, error) {
	var result int64
	if err := c.call(ctx, "getSlot", nil, &result); err != nil {
		return 0, err
	}
	return result, nil
}

// GetBlockTime retrieves the estimated production time of a block.
func (c *HTTPClient) GetBlockTime(ctx context.Context, slot int64) (*int64, error) {
	params := []interface{}{slot}
	var result *int64
	if err := c.call(ctx, "getBlockTime", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetEpochInfo retrieves current epoch progress.
func (c *HTTPClient) GetEpochInfo(ctx context.Context) (*EpochInfo, error) {
	var result EpochInfo
	if err := c.call(ctx, "getEpochInfo", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMintInfo retrieves parsed mint account state via getAccountInfo.
// Returns nil if the account does not exist.
func (c *HTTPClient) GetMintInfo(ctx context.Context, mint string) (*MintInfo, error) {
	params := []interface{}{
		mint,
		map[string]interface{}{
			"encoding": "jsonParsed",
		},
	}

	var result getAccountInfoResult
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}

	if result.Value == nil {
		return nil, nil
	}

	info := result.Value.Data.Parsed.Info
	return &MintInfo{
		Address:         mint,
		Decimals:        info.Decimals,
		Supply:          info.Supply,
		MintAuthority:   info.MintAuthority,
		FreezeAuthority: info.FreezeAuthority,
		IsInitialized:   info.IsInitialized,
	}, nil
}

// getAccountInfoResult is the raw jsonParsed RPC response for getAccountInfo.
type getAccountInfoResult struct {
	Value *getAccountInfoValue `json:"value"`
}

type getAccountInfoValue struct {
	Lamports uint64            `json:"lamports"`
	Owner    string            `json:"owner"`
	Data     parsedAccountData `json:"data"`
}

type parsedAccountData struct {
	Program string            `json:"program"`
	Parsed  parsedAccountInfo `json:"parsed"`
	Space   uint64            `json:"space"`
}

type parsedAccountInfo struct {
	Type string         `json:"type"`
	Info parsedMintInfo `json:"info"`
}

// parsedMintInfo is the jsonParsed layout of an SPL mint account.
type parsedMintInfo struct {
	Decimals        int     `json:"decimals"`
	Supply          string  `json:"supply"`
	MintAuthority   *string `json:"mintAuthority"`
	FreezeAuthority *string `json:"freezeAuthority"`
	IsInitialized   bool    `json:"isInitialized"`
}

// GetTokenAccountsByOwner retrieves parsed token accounts for a wallet,
// filtered by mint when mint is non-empty.
func (c *HTTPClient) GetTokenAccountsByOwner(ctx context.Context, owner, mint string) ([]TokenAccount, error) {
	filter := map[string]interface{}{"programId": TokenProgramID}
	if mint != "" {
		filter = map[string]interface{}{"mint": mint}
	}

	params := []interface{}{
		owner,
		filter,
		map[string]interface{}{
			"encoding": "jsonParsed",
		},
	}

	var result getTokenAccountsResult
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, err
	}

	accounts := make([]TokenAccount, 0, len(result.Value))
	for _, v := range result.Value {
		info := v.Account.Data.Parsed.Info
		accounts = append(accounts, TokenAccount{
			TokenAccount: v.Pubkey,
			Mint:         info.Mint,
			Amount:       info.TokenAmount.Amount,
			UIAmount:     info.TokenAmount.UIAmount,
			Decimals:     info.TokenAmount.Decimals,
		})
	}

	return accounts, nil
}

// getTokenAccountsResult is the raw RPC response for getTokenAccountsByOwner.
type getTokenAccountsResult struct {
	Value []tokenAccountWrapper `json:"value"`
}

type tokenAccountWrapper struct {
	Pubkey  string            `json:"pubkey"`
	Account tokenAccountOuter `json:"account"`
}

type tokenAccountOuter struct {
	Data tokenAccountData `json:"data"`
}

type tokenAccountData struct {
	Parsed tokenAccountParsed `json:"parsed"`
}

type tokenAccountParsed struct {
	Info tokenAccountInfo `json:"info"`
}

type tokenAccountInfo struct {
	Mint        string      `json:"mint"`
	TokenAmount tokenAmount `json:"tokenAmount"`
}

type tokenAmount struct {
	Amount   string  `json:"amount"`
	UIAmount float64 `json:"uiAmount"`
	Decimals int     `json:"decimals"`
}

// GetTokenLargestAccounts retrieves the 20 largest holders of a mint.
func (c *HTTPClient) GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenHolder, error) {
	params := []interface{}{mint}

	var result getTokenLargestResult
	if err := c.call(ctx, "getTokenLargestAccounts", params, &result); err != nil {
		return nil, err
	}

	holders := make([]TokenHolder, len(result.Value))
	for i, v := range result.Value {
		holders[i] = TokenHolder{
			Address:  v.Address,
			Amount:   v.Amount,
			UIAmount: v.UIAmount,
		}
	}

	return holders, nil
}

// getTokenLargestResult is the raw RPC response for getTokenLargestAccounts.
type getTokenLargestResult struct {
	Value []struct {
		Address  string  `json:"address"`
		Amount   string  `json:"amount"`
		UIAmount float64 `json:"uiAmount"`
	} `json:"value"`
}
