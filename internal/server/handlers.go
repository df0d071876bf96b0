package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"solforge/internal/domain"
	"solforge/internal/plans"
	"solforge/internal/solana"
	"solforge/internal/staging"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var vErr *staging.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Error()})
		return
	}

	var cErr *staging.ConstraintViolation
	if errors.As(err, &cErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: cErr.Error()})
		return
	}

	if errors.Is(err, staging.ErrUpstreamUnavailable) {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	s.logger.Error("internal error", "err", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// handleHealth returns service health and target network.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"network":   s.network,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStats is a pass-through of current chain state.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slot, err := s.rpc.GetSlot(ctx)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	blockTime, err := s.rpc.GetBlockTime(ctx, slot)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	epoch, err := s.rpc.GetEpochInfo(ctx)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"slot":         slot,
		"blockTime":    blockTime,
		"epoch":        epoch.Epoch,
		"slotIndex":    epoch.SlotIndex,
		"slotsInEpoch": epoch.SlotsInEpoch,
	})
}

// handleTokenCreate stages an unsigned token creation.
func (s *Server) handleTokenCreate(w http.ResponseWriter, r *http.Request) {
	var intent domain.TokenCreationIntent
	if err := decode(r, &intent); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	staged, err := s.stager.PrepareTokenCreation(r.Context(), &intent)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Token creation transaction prepared",
		"data":    staged,
	})
}

// handleAirdrop stages a batched token distribution.
func (s *Server) handleAirdrop(w http.ResponseWriter, r *http.Request) {
	var batch domain.AirdropBatch
	if err := decode(r, &batch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	staged, err := s.stager.PrepareAirdrop(&batch)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Airdrop transaction prepared",
		"data":    staged,
	})
}

// handleTokenInfo is a pass-through of parsed mint state.
func (s *Server) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	mint := chi.URLParam(r, "mint")

	info, err := s.rpc.GetMintInfo(r.Context(), mint)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	if info == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Mint not found"})
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// handleTokenBalance is a pass-through of a wallet's balance for one mint.
func (s *Server) handleTokenBalance(w http.ResponseWriter, r *http.Request) {
	mint := chi.URLParam(r, "mint")
	wallet := chi.URLParam(r, "wallet")

	accounts, err := s.rpc.GetTokenAccountsByOwner(r.Context(), wallet, mint)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	if len(accounts) == 0 {
		resp := map[string]interface{}{
			"balance":    "0",
			"hasAccount": false,
		}
		// Tell the caller which associated account holds this balance once
		// created (the create-associated-account follow-up step).
		if ata, err := solana.AssociatedTokenAddress(wallet, mint); err == nil {
			resp["tokenAccount"] = ata
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance":      accounts[0].Amount,
		"hasAccount":   true,
		"tokenAccount": accounts[0].TokenAccount,
	})
}

// holderEntry is one ranked row of the holders response.
type holderEntry struct {
	Rank     int     `json:"rank"`
	Address  string  `json:"address"`
	Amount   string  `json:"amount"`
	UIAmount float64 `json:"uiAmount"`
}

// handleTokenHolders is a pass-through of the largest token accounts.
func (s *Server) handleTokenHolders(w http.ResponseWriter, r *http.Request) {
	mint := chi.URLParam(r, "mint")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	holders, err := s.rpc.GetTokenLargestAccounts(r.Context(), mint)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	entries := make([]holderEntry, len(holders))
	for i, h := range holders {
		entries[i] = holderEntry{
			Rank:     i + 1,
			Address:  h.Address,
			Amount:   h.Amount,
			UIAmount: h.UIAmount,
		}
	}

	if offset > len(entries) {
		offset = len(entries)
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"holders": entries[offset:end],
		"total":   len(entries),
	})
}

// handleWalletTokens is a pass-through of all SPL tokens a wallet owns.
func (s *Server) handleWalletTokens(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")

	accounts, err := s.rpc.GetTokenAccountsByOwner(r.Context(), wallet, "")
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": accounts,
		"count":  len(accounts),
	})
}

// handleVestingCreate creates and registers a vesting schedule.
func (s *Server) handleVestingCreate(w http.ResponseWriter, r *http.Request) {
	var intent domain.VestingIntent
	if err := decode(r, &intent); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sched, err := s.stager.CreateVestingSchedule(r.Context(), &intent)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Vesting schedule created",
		"schedule": sched,
	})
}

// handleVestingList returns all schedules for a beneficiary wallet.
func (s *Server) handleVestingList(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")

	schedules, err := s.stager.ListVestingSchedules(r.Context(), wallet)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if schedules == nil {
		schedules = []*domain.VestingSchedule{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"schedules": schedules,
		"count":     len(schedules),
	})
}

// handleLiquidityCreate stages a liquidity pool initialization.
func (s *Server) handleLiquidityCreate(w http.ResponseWriter, r *http.Request) {
	var intent domain.LiquidityPoolIntent
	if err := decode(r, &intent); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	staged, err := s.stager.PrepareLiquidityPool(&intent)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Liquidity pool creation prepared",
		"data":    staged,
	})
}

// subscriptionRequest is the request body for subscription creation.
type subscriptionRequest struct {
	WalletAddress string `json:"walletAddress"`
	Plan          string `json:"plan"`
	PaymentTxID   string `json:"paymentTxId"`
}

// handleSubscriptionCreate records a plan subscription. Payment verification
// is delegated to the billing collaborator; this endpoint only shapes the
// subscription record.
func (s *Server) handleSubscriptionCreate(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.WalletAddress == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "walletAddress is required"})
		return
	}

	now := time.Now().UTC()
	sub := domain.Subscription{
		ID:            fmt.Sprintf("sub_%d", now.UnixMilli()),
		WalletAddress: req.WalletAddress,
		Plan:          req.Plan,
		Status:        "active",
		StartDate:     now.Format(time.RFC3339),
		EndDate:       now.Add(30 * 24 * time.Hour).Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"subscription": sub,
		"features":     plans.For(req.Plan),
	})
}

// handlePlan returns the feature table for a plan.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan := chi.URLParam(r, "plan")
	if !plans.Known(plan) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Unknown plan"})
		return
	}
	writeJSON(w, http.StatusOK, plans.For(plan))
}
