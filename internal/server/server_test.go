package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"

	"solforge/internal/domain"
	"solforge/internal/solana"
	"solforge/internal/solana/stub"
	"solforge/internal/staging"
	"solforge/internal/storage/memory"
)

const (
	testOwner = "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"
	testMint  = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

// newTestServer builds a server over in-memory collaborators with an
// effectively unlimited rate limit.
func newTestServer(t *testing.T) (*Server, *stub.RPCClient) {
	t.Helper()

	rpc := stub.NewRPCClient()
	rpc.RentExemption[domain.MintAccountSize] = 1_461_600
	rpc.Slot = 250_000_000
	blockTime := int64(1_700_000_000)
	rpc.BlockTime = &blockTime
	rpc.Epoch = &solana.EpochInfo{Epoch: 600, SlotIndex: 100, SlotsInEpoch: 432_000}

	stager := staging.New(staging.Options{
		Oracle:    rpc,
		Keys:      solana.NewRandomKeyGenerator(),
		Schedules: memory.NewScheduleStore(),
		Logger:    slog.New(slog.DiscardHandler),
	})

	srv := New(Config{
		Addr:        ":0",
		RPCEndpoint: "https://api.devnet.solana.com",
		RateLimit:   rate.Inf,
		RateBurst:   1,
	}, stager, rpc, slog.New(slog.DiscardHandler))

	return srv, rpc
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", resp["status"])
	}
	if resp["network"] != "devnet" {
		t.Errorf("network = %v, want devnet", resp["network"])
	}
}

func TestStats(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := doJSON(t, srv.Handler(), http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["slot"] != float64(250_000_000) {
		t.Errorf("slot = %v, want 250000000", resp["slot"])
	}
	if resp["epoch"] != float64(600) {
		t.Errorf("epoch = %v, want 600", resp["epoch"])
	}
}

func TestStats_UpstreamDown(t *testing.T) {
	srv, rpc := newTestServer(t)
	rpc.Fail = true

	rec, _ := doJSON(t, srv.Handler(), http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestTokenCreate(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := doJSON(t, srv.Handler(), http.MethodPost, "/api/token/create", map[string]interface{}{
		"name":           "Test Token",
		"symbol":         "TEST",
		"supply":         1_000_000,
		"ownerPublicKey": testOwner,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", rec.Code, resp)
	}
	if resp["success"] != true {
		t.Error("expected success true")
	}

	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %v", resp["data"])
	}
	if data["mintAddress"] == "" {
		t.Error("expected generated mint address")
	}
	if data["lamportsRequired"] != float64(1_461_600) {
		t.Errorf("lamportsRequired = %v, want 1461600", data["lamportsRequired"])
	}

	details, ok := data["tokenDetails"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected tokenDetails object, got %v", data["tokenDetails"])
	}
	if details["decimals"] != float64(9) {
		t.Errorf("decimals = %v, want default 9", details["decimals"])
	}
}

func TestTokenCreate_ValidationError(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := doJSON(t, srv.Handler(), http.MethodPost, "/api/token/create", map[string]interface{}{
		"symbol":         "TEST",
		"supply":         1_000_000,
		"ownerPublicKey": testOwner,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp["error"] == nil {
		t.Error("expected error message")
	}
}

func TestTokenCreate_UpstreamDown(t *testing.T) {
	srv, rpc := newTestServer(t)
	rpc.Fail = true

	rec, _ := doJSON(t, srv.Handler(), http.MethodPost, "/api/token/create", map[string]interface{}{
		"name":           "Test Token",
		"symbol":         "TEST",
		"supply":         1_000_000,
		"ownerPublicKey": testOwner,
	})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestTokenCreate_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/token/create", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAirdrop(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := doJSON(t, srv.Handler(), http.MethodPost, "/api/token/airdrop", map[string]interface{}{
		"mintAddress":     testMint,
		"recipients":      []string{"walletA", "walletB"},
		"amounts":         []uint64{100, 200},
		"senderPublicKey": testOwner,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", rec.Code, resp)
	}

	data := resp["data"].(map[string]interface{})
	if data["totalRecipients"] != float64(2) {
		t.Errorf("totalRecipients = %v, want 2", data["totalRecipients"])
	}
	if data["totalAmount"] != float64(300) {
		t.Errorf("totalAmount = %v, want 300", data["totalAmount"])
	}
	if data["estimatedFee"] != float64(10_000) {
		t.Errorf("estimatedFee = %v, want 10000", data["estimatedFee"])
	}
}

func TestAirdrop_BatchTooLarge(t *testing.T) {
	srv, _ := newTestServer(t)

	recipients := make([]string, domain.MaxAirdropRecipients+1)
	amounts := make([]uint64, domain.MaxAirdropRecipients+1)
	for i := range recipients {
		recipients[i] = fmt.Sprintf("wallet%d", i)
		amounts[i] = 1
	}

	rec, _ := doJSON(t, srv.Handler(), http.MethodPost, "/api/token/airdrop", map[string]interface{}{
		"mintAddress":     testMint,
		"recipients":      recipients,
		"amounts":         amounts,
		"senderPublicKey": testOwner,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTokenInfo(t *testing.T) {
	srv, rpc := newTestServer(t)

	auth := "AuthAddr111"
	rpc.Mints["Mint111"] = &solana.MintInfo{
		Address:       "Mint111",
		Decimals:      6,
		Supply:        "1000000",
		MintAuthority: &auth,
		IsInitialized: true,
	}

	rec, resp := doJSON(t, srv.Handler(), http.MethodGet, "/api/token/Mint111", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["decimals"] != float64(6) {
		t.Errorf("decimals = %v, want 6", resp["decimals"])
	}

	rec, _ = doJSON(t, srv.Handler(), http.MethodGet, "/api/token/MissingMint", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing mint status = %d, want 404", rec.Code)
	}
}

func TestTokenBalance(t *testing.T) {
	srv, rpc := newTestServer(t)

	rpc.Accounts["WalletA"] = []solana.TokenAccount{
		{TokenAccount: "Acct1", Mint: "Mint111", Amount: "5000", UIAmount: 5, Decimals: 3},
	}

	rec, resp := doJSON(t, srv.Handler(), http.MethodGet, "/api/token/Mint111/balance/WalletA", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["balance"] != "5000" || resp["hasAccount"] != true {
		t.Errorf("unexpected balance response: %v", resp)
	}
	if resp["tokenAccount"] != "Acct1" {
		t.Errorf("tokenAccount = %v, want Acct1", resp["tokenAccount"])
	}

	// No account for the mint reports a zero balance, not an error.
	rec, resp = doJSON(t, srv.Handler(), http.MethodGet, "/api/token/OtherMint/balance/WalletA", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["balance"] != "0" || resp["hasAccount"] != false {
		t.Errorf("unexpected empty balance response: %v", resp)
	}
}

func TestTokenBalance_NoAccountDerivesAssociatedAddress(t *testing.T) {
	srv, _ := newTestServer(t)

	// With parseable addresses the response names the associated token
	// account the wallet would create to hold this mint.
	rec, resp := doJSON(t, srv.Handler(), http.MethodGet, "/api/token/"+testMint+"/balance/"+testOwner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["hasAccount"] != false {
		t.Errorf("hasAccount = %v, want false", resp["hasAccount"])
	}

	want, err := solana.AssociatedTokenAddress(testOwner, testMint)
	if err != nil {
		t.Fatalf("derive expected address: %v", err)
	}
	if resp["tokenAccount"] != want {
		t.Errorf("tokenAccount = %v, want %s", resp["tokenAccount"], want)
	}
}

func TestTokenHolders(t *testing.T) {
	srv, rpc := newTestServer(t)

	rpc.Holders["Mint111"] = []solana.TokenHolder{
		{Address: "Holder1", Amount: "900", UIAmount: 0.9},
		{Address: "Holder2", Amount: "90", UIAmount: 0.09},
		{Address: "Holder3", Amount: "10", UIAmount: 0.01},
	}

	rec, resp := doJSON(t, srv.Handler(), http.MethodGet, "/api/token/Mint111/holders?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["total"] != float64(3) {
		t.Errorf("total = %v, want 3", resp["total"])
	}

	holders := resp["holders"].([]interface{})
	if len(holders) != 2 {
		t.Fatalf("got %d holders, want 2", len(holders))
	}
	first := holders[0].(map[string]interface{})
	if first["rank"] != float64(1) || first["address"] != "Holder1" {
		t.Errorf("unexpected first holder: %v", first)
	}
}

func TestWalletTokens(t *testing.T) {
	srv, rpc := newTestServer(t)

	rpc.Accounts["WalletA"] = []solana.TokenAccount{
		{TokenAccount: "Acct1", Mint: "Mint111", Amount: "5000"},
		{TokenAccount: "Acct2", Mint: "Mint222", Amount: "7000"},
	}

	rec, resp := doJSON(t, srv.Handler(), http.MethodGet, "/api/wallet/WalletA/tokens", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["count"] != float64(2) {
		t.Errorf("count = %v, want 2", resp["count"])
	}
}

func TestVestingCreateAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := doJSON(t, srv.Handler(), http.MethodPost, "/api/vesting/create", map[string]interface{}{
		"mintAddress":     testMint,
		"beneficiary":     "WalletB",
		"totalAmount":     1000,
		"startTime":       1_700_000_000_000,
		"cliffDuration":   60,
		"vestingDuration": 3600,
		"ownerPublicKey":  testOwner,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, want 200: %v", rec.Code, resp)
	}

	sched := resp["schedule"].(map[string]interface{})
	if sched["cliffEnd"] != float64(1_700_000_060_000) {
		t.Errorf("cliffEnd = %v, want 1700000060000", sched["cliffEnd"])
	}
	if sched["vestingEnd"] != float64(1_700_003_600_000) {
		t.Errorf("vestingEnd = %v, want 1700003600000", sched["vestingEnd"])
	}
	if sched["status"] != "active" {
		t.Errorf("status = %v, want active", sched["status"])
	}

	rec, resp = doJSON(t, srv.Handler(), http.MethodGet, "/api/vesting/WalletB", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	if resp["count"] != float64(1) {
		t.Errorf("count = %v, want 1", resp["count"])
	}
}

func TestVestingList_EmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := doJSON(t, srv.Handler(), http.MethodGet, "/api/vesting/NobodyWallet", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// The schedules field must serialize as [], not null.
	var raw struct {
		Schedules json.RawMessage `json:"schedules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(raw.Schedules) != "[]" {
		t.Errorf("schedules = %s, want []", raw.Schedules)
	}
}

func TestVestingCreate_NegativeDuration(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := doJSON(t, srv.Handler(), http.MethodPost, "/api/vesting/create", map[string]interface{}{
		"mintAddress":     testMint,
		"beneficiary":     "WalletB",
		"totalAmount":     1000,
		"startTime":       1_700_000_000_000,
		"vestingDuration": -5,
		"ownerPublicKey":  testOwner,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLiquidityCreate(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := doJSON(t, srv.Handler(), http.MethodPost, "/api/liquidity/create", map[string]interface{}{
		"tokenMint":      testMint,
		"quoteMint":      "So11111111111111111111111111111111111111112",
		"tokenAmount":    1_000_000,
		"quoteAmount":    250_000,
		"ownerPublicKey": testOwner,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", rec.Code, resp)
	}

	data := resp["data"].(map[string]interface{})
	if data["initialPrice"] != 0.25 {
		t.Errorf("initialPrice = %v, want 0.25", data["initialPrice"])
	}
	if data["estimatedLpTokens"] != float64(500_000) {
		t.Errorf("estimatedLpTokens = %v, want 500000", data["estimatedLpTokens"])
	}
	if data["poolType"] != domain.PoolTypeAMMV4 {
		t.Errorf("poolType = %v, want %s", data["poolType"], domain.PoolTypeAMMV4)
	}
}

func TestSubscriptionCreate(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := doJSON(t, srv.Handler(), http.MethodPost, "/api/subscription/create", map[string]interface{}{
		"walletAddress": testOwner,
		"plan":          "pro",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", rec.Code, resp)
	}

	sub := resp["subscription"].(map[string]interface{})
	if sub["status"] != "active" {
		t.Errorf("subscription status = %v, want active", sub["status"])
	}
	if sub["plan"] != "pro" {
		t.Errorf("plan = %v, want pro", sub["plan"])
	}

	features := resp["features"].(map[string]interface{})
	if features["vesting"] != true {
		t.Errorf("pro features should include vesting: %v", features)
	}
}

func TestSubscriptionCreate_MissingWallet(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := doJSON(t, srv.Handler(), http.MethodPost, "/api/subscription/create", map[string]interface{}{
		"plan": "pro",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPlan(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := doJSON(t, srv.Handler(), http.MethodGet, "/api/plans/enterprise", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["whiteLabel"] != true {
		t.Errorf("enterprise whiteLabel = %v, want true", resp["whiteLabel"])
	}

	rec, _ = doJSON(t, srv.Handler(), http.MethodGet, "/api/plans/platinum", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown plan status = %d, want 404", rec.Code)
	}
}

func TestNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := doJSON(t, srv.Handler(), http.MethodGet, "/api/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp["error"] == nil {
		t.Error("expected error body")
	}
}

func TestRateLimit(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.RentExemption[domain.MintAccountSize] = 1_461_600

	stager := staging.New(staging.Options{
		Oracle:    rpc,
		Keys:      solana.NewRandomKeyGenerator(),
		Schedules: memory.NewScheduleStore(),
		Logger:    slog.New(slog.DiscardHandler),
	})

	// One request per hour with a burst of 2: the third request in quick
	// succession from the same IP must be rejected.
	srv := New(Config{
		Addr:        ":0",
		RPCEndpoint: "https://api.devnet.solana.com",
		RateLimit:   rate.Limit(1.0 / 3600),
		RateBurst:   2,
	}, stager, rpc, slog.New(slog.DiscardHandler))

	for i := 0; i < 2; i++ {
		rec, _ := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}

	rec, resp := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if resp["error"] == nil {
		t.Error("expected error body")
	}
}
