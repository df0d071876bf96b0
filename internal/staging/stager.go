// Package staging turns validated client intents into operation descriptors:
// unsigned token creation data, packaged airdrop batches, vesting schedules,
// and liquidity-pool initializations. Descriptors are returned to the caller
// for client-side signing; only vesting schedules enter shared state.
package staging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"solforge/internal/domain"
	"solforge/internal/observability"
	"solforge/internal/schedule"
	"solforge/internal/solana"
	"solforge/internal/storage"
)

// RentOracle is the ledger fee-calculation dependency used during token
// creation staging.
type RentOracle interface {
	MinimumRentExemption(ctx context.Context, sizeBytes int) (uint64, error)
}

// Options configures a Stager.
type Options struct {
	Oracle    RentOracle          // required for PrepareTokenCreation
	Keys      solana.KeyGenerator // required for PrepareTokenCreation
	Schedules storage.ScheduleStore
	Clock     clockwork.Clock // defaults to the real clock
	Logger    *slog.Logger    // defaults to slog.Default()
}

// Stager builds operation descriptors from validated intents.
type Stager struct {
	oracle    RentOracle
	keys      solana.KeyGenerator
	schedules storage.ScheduleStore
	clock     clockwork.Clock
	logger    *slog.Logger

	// Rent exemption is a chain constant per account size; cache it after
	// the first successful oracle fetch.
	rentMu    sync.Mutex
	rentCache map[int]uint64
}

// New creates a Stager.
func New(opts Options) *Stager {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Stager{
		oracle:    opts.Oracle,
		keys:      opts.Keys,
		schedules: opts.Schedules,
		clock:     clock,
		logger:    logger,
		rentCache: make(map[int]uint64),
	}
}

// PrepareTokenCreation validates a token creation intent and stages an
// unsigned mint: fresh keypair, rent estimate, and the ordered client-side
// follow-up protocol. The secret key is returned exactly once; the engine
// retains no copy.
func (s *Stager) PrepareTokenCreation(ctx context.Context, intent *domain.TokenCreationIntent) (*domain.StagedMint, error) {
	decimals, err := ValidateTokenCreation(intent)
	if err != nil {
		observability.RecordStaging("token_create", "validation_error")
		return nil, err
	}

	lamports, err := s.rentExemption(ctx, domain.MintAccountSize)
	if err != nil {
		observability.RecordStaging("token_create", "upstream_error")
		return nil, fmt.Errorf("%w: rent exemption lookup: %v", ErrUpstreamUnavailable, err)
	}

	keypair, err := s.keys.Generate()
	if err != nil {
		observability.RecordStaging("token_create", "error")
		return nil, fmt.Errorf("generate mint keypair: %w", err)
	}

	staged := &domain.StagedMint{
		MintAddress:      keypair.PublicKey,
		MintSecretKey:    keypair.SecretKey,
		MintSecretKeyB58: keypair.SecretKeyB58,
		LamportsRequired: lamports,
		TokenDetails: domain.TokenDetails{
			Name:        intent.Name,
			Symbol:      intent.Symbol,
			Decimals:    decimals,
			Supply:      intent.Supply,
			Description: intent.Description,
			Image:       intent.Image,
		},
		Steps: domain.MintFollowUpSteps(),
	}

	s.logger.Info("staged token creation",
		"mint", staged.MintAddress,
		"symbol", intent.Symbol,
		"decimals", decimals,
	)
	observability.RecordStaging("token_create", "success")
	return staged, nil
}

// rentExemption returns the cached rent value for an account size, fetching
// it from the oracle on first use.
func (s *Stager) rentExemption(ctx context.Context, sizeBytes int) (uint64, error) {
	s.rentMu.Lock()
	if lamports, ok := s.rentCache[sizeBytes]; ok {
		s.rentMu.Unlock()
		return lamports, nil
	}
	s.rentMu.Unlock()

	lamports, err := s.oracle.MinimumRentExemption(ctx, sizeBytes)
	if err != nil {
		return 0, err
	}

	s.rentMu.Lock()
	s.rentCache[sizeBytes] = lamports
	s.rentMu.Unlock()
	return lamports, nil
}

// PrepareAirdrop validates an airdrop batch and returns it with derived
// totals and fee estimate. Nothing is persisted; the caller executes the
// transfers client-side.
func (s *Stager) PrepareAirdrop(batch *domain.AirdropBatch) (*domain.StagedAirdrop, error) {
	if err := ValidateAirdrop(batch); err != nil {
		observability.RecordStaging("airdrop", "validation_error")
		return nil, err
	}

	transfers := make([]domain.Transfer, len(batch.Recipients))
	var total uint64
	for i, recipient := range batch.Recipients {
		transfers[i] = domain.Transfer{
			Recipient: recipient,
			Amount:    batch.Amounts[i],
		}
		total += batch.Amounts[i]
	}

	staged := &domain.StagedAirdrop{
		MintAddress:     batch.MintAddress,
		TotalRecipients: len(batch.Recipients),
		TotalAmount:     total,
		EstimatedFee:    uint64(len(batch.Recipients)) * domain.AirdropFeePerRecipient,
		Transfers:       transfers,
	}

	observability.RecordStaging("airdrop", "success")
	return staged, nil
}

// CreateVestingSchedule validates a vesting intent, computes the derived
// schedule, and inserts it into the registry. The registry insert is the
// last step: no partial writes are ever visible.
func (s *Stager) CreateVestingSchedule(ctx context.Context, intent *domain.VestingIntent) (*domain.VestingSchedule, error) {
	if err := ValidateVesting(intent); err != nil {
		observability.RecordStaging("vesting_create", "validation_error")
		return nil, err
	}

	rate, err := schedule.AccrualRate(intent.TotalAmount, intent.VestingDuration)
	if err != nil {
		observability.RecordStaging("vesting_create", "validation_error")
		return nil, &ValidationError{Field: "vestingDuration", Reason: ReasonMustBePositive}
	}

	now := s.clock.Now()
	sched := &domain.VestingSchedule{
		ID:              newScheduleID(now),
		MintAddress:     intent.MintAddress,
		Beneficiary:     intent.Beneficiary,
		Owner:           intent.Owner,
		TotalAmount:     intent.TotalAmount,
		StartTime:       intent.StartTime,
		CliffEnd:        intent.StartTime + intent.CliffDuration*1000,
		VestingEnd:      intent.StartTime + intent.VestingDuration*1000,
		AmountPerSecond: rate,
		Claimed:         0,
		Status:          domain.ScheduleStatusActive,
		CreatedAt:       now.UnixMilli(),
	}

	if err := s.schedules.Put(ctx, sched); err != nil {
		// Ids are engine-generated; a duplicate is an internal bug, not a
		// user error. Surface it, never retry silently.
		s.logger.Error("vesting schedule insert failed",
			"schedule_id", sched.ID,
			"beneficiary", sched.Beneficiary,
			"err", err,
		)
		observability.RecordStaging("vesting_create", "error")
		return nil, fmt.Errorf("register vesting schedule %s: %w", sched.ID, err)
	}

	s.logger.Info("created vesting schedule",
		"schedule_id", sched.ID,
		"beneficiary", sched.Beneficiary,
		"total_amount", sched.TotalAmount,
	)
	observability.RecordStaging("vesting_create", "success")
	observability.RecordScheduleCreated()
	return sched, nil
}

// ListVestingSchedules returns all schedules for a beneficiary in insertion
// order. Each call observes a fresh, consistent snapshot.
func (s *Stager) ListVestingSchedules(ctx context.Context, beneficiary string) ([]*domain.VestingSchedule, error) {
	if beneficiary == "" {
		return nil, missingField("beneficiary")
	}
	return s.schedules.GetByBeneficiary(ctx, beneficiary)
}

// PrepareLiquidityPool validates a pool intent and returns the descriptor
// with derived price and LP share estimate. Stateless.
func (s *Stager) PrepareLiquidityPool(intent *domain.LiquidityPoolIntent) (*domain.StagedPool, error) {
	if err := ValidateLiquidity(intent); err != nil {
		observability.RecordStaging("liquidity", "validation_error")
		return nil, err
	}

	price, err := schedule.InitialPrice(intent.TokenAmount, intent.QuoteAmount)
	if err != nil {
		observability.RecordStaging("liquidity", "validation_error")
		return nil, &ValidationError{Field: "tokenAmount", Reason: ReasonMustBePositive}
	}
	shares, err := schedule.LPShareEstimate(intent.TokenAmount, intent.QuoteAmount)
	if err != nil {
		observability.RecordStaging("liquidity", "validation_error")
		return nil, &ValidationError{Field: "tokenAmount", Reason: ReasonMustBePositive}
	}

	staged := &domain.StagedPool{
		TokenMint:         intent.TokenMint,
		QuoteMint:         intent.QuoteMint,
		TokenAmount:       intent.TokenAmount,
		QuoteAmount:       intent.QuoteAmount,
		InitialPrice:      price,
		EstimatedLPTokens: shares,
		PoolType:          domain.PoolTypeAMMV4,
	}

	observability.RecordStaging("liquidity", "success")
	return staged, nil
}
