package staging

import (
	"solforge/internal/domain"
	"solforge/internal/solana"
)

// DefaultDecimals is applied when a token creation intent omits decimals.
const DefaultDecimals = 9

// Decimals bounds for token creation.
const (
	MinDecimals = 0
	MaxDecimals = 18
)

// Validation is fail-fast: rules are checked in a fixed order and the first
// violated one is reported. No staging happens on any error path.

// ValidateTokenCreation checks a token creation intent and returns the
// resolved decimals value (defaulted to DefaultDecimals when absent).
func ValidateTokenCreation(intent *domain.TokenCreationIntent) (int, error) {
	if intent.Name == "" {
		return 0, missingField("name")
	}
	if intent.Symbol == "" {
		return 0, missingField("symbol")
	}
	if intent.Supply == 0 {
		return 0, missingField("supply")
	}
	if intent.Owner == "" {
		return 0, missingField("ownerPublicKey")
	}

	decimals := DefaultDecimals
	if intent.Decimals != nil {
		decimals = *intent.Decimals
		if decimals < MinDecimals || decimals > MaxDecimals {
			return 0, &ValidationError{Field: "decimals", Reason: ReasonOutOfRange}
		}
	}

	if !solana.ValidAddress(intent.Owner) {
		return 0, &ValidationError{Field: "ownerPublicKey", Reason: ReasonInvalidAddress}
	}

	return decimals, nil
}

// ValidateAirdrop checks an airdrop batch request.
func ValidateAirdrop(batch *domain.AirdropBatch) error {
	if batch.MintAddress == "" {
		return missingField("mintAddress")
	}
	if len(batch.Recipients) == 0 {
		return missingField("recipients")
	}
	if len(batch.Amounts) == 0 {
		return missingField("amounts")
	}
	if batch.Sender == "" {
		return missingField("senderPublicKey")
	}

	if len(batch.Recipients) != len(batch.Amounts) {
		return &ConstraintViolation{Rule: RuleLengthMismatch}
	}
	if len(batch.Recipients) > domain.MaxAirdropRecipients {
		return &ConstraintViolation{Rule: RuleBatchTooLarge}
	}

	return nil
}

// ValidateVesting checks a vesting schedule creation intent.
func ValidateVesting(intent *domain.VestingIntent) error {
	if intent.MintAddress == "" {
		return missingField("mintAddress")
	}
	if intent.Beneficiary == "" {
		return missingField("beneficiary")
	}
	if intent.TotalAmount == 0 {
		return missingField("totalAmount")
	}
	if intent.StartTime == 0 {
		return missingField("startTime")
	}
	if intent.VestingDuration == 0 {
		return missingField("vestingDuration")
	}
	if intent.Owner == "" {
		return missingField("ownerPublicKey")
	}

	if intent.VestingDuration < 0 {
		return &ValidationError{Field: "vestingDuration", Reason: ReasonMustBePositive}
	}
	if intent.CliffDuration < 0 {
		return &ValidationError{Field: "cliffDuration", Reason: ReasonMustBePositive}
	}
	// The cliff must end at or before vesting completes, or the schedule
	// would never release its full amount.
	if intent.CliffDuration > intent.VestingDuration {
		return &ValidationError{Field: "cliffDuration", Reason: ReasonOutOfRange}
	}

	return nil
}

// ValidateLiquidity checks a liquidity pool initialization intent.
func ValidateLiquidity(intent *domain.LiquidityPoolIntent) error {
	if intent.TokenMint == "" {
		return missingField("tokenMint")
	}
	if intent.QuoteMint == "" {
		return missingField("quoteMint")
	}
	if intent.TokenAmount == 0 {
		return &ValidationError{Field: "tokenAmount", Reason: ReasonMustBePositive}
	}
	if intent.QuoteAmount == 0 {
		return &ValidationError{Field: "quoteAmount", Reason: ReasonMustBePositive}
	}
	if intent.Owner == "" {
		return missingField("ownerPublicKey")
	}

	return nil
}
