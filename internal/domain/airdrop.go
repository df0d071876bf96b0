package domain

// Airdrop batch limits and fee constants.
const (
	// MaxAirdropRecipients is the hard per-batch ceiling. Larger drops must
	// be split client-side.
	MaxAirdropRecipients = 100

	// AirdropFeePerRecipient is the approximate network fee in lamports
	// charged per transfer in a batch.
	AirdropFeePerRecipient = 5000
)

// AirdropBatch is a client request to distribute tokens to a set of wallets.
type AirdropBatch struct {
	MintAddress string   `json:"mintAddress"`     // token mint (base58)
	Recipients  []string `json:"recipients"`      // recipient wallets (base58)
	Amounts     []uint64 `json:"amounts"`         // base-unit amounts, parallel to Recipients
	Sender      string   `json:"senderPublicKey"` // sending wallet (base58)
}

// Transfer is one (recipient, amount) pair of a staged airdrop.
type Transfer struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// StagedAirdrop describes a validated airdrop batch with derived totals.
// Immutable once staged; never persisted — the caller executes the transfers.
type StagedAirdrop struct {
	MintAddress     string     `json:"mintAddress"`
	TotalRecipients int        `json:"totalRecipients"`
	TotalAmount     uint64     `json:"totalAmount"`  // sum of all amounts
	EstimatedFee    uint64     `json:"estimatedFee"` // recipients × AirdropFeePerRecipient
	Transfers       []Transfer `json:"transfers"`
}
