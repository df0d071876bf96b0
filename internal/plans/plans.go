// Package plans holds the static subscription plan feature table. The table
// is informational: the engine enforces its own fixed limits (for example
// the 100-recipient airdrop ceiling) regardless of plan; callers consult the
// table to apply additional entitlement checks of their own.
package plans

// Unlimited marks a feature with no numeric cap.
const Unlimited = -1

// Features describes the entitlements of a subscription plan.
type Features struct {
	MaxTokens            int    `json:"maxTokens"`
	MaxAirdropRecipients int    `json:"maxAirdropRecipients"`
	Analytics            string `json:"analytics"`
	Support              string `json:"support"`
	Vesting              bool   `json:"vesting,omitempty"`
	LPManagement         bool   `json:"lpManagement,omitempty"`
	WhiteLabel           bool   `json:"whiteLabel,omitempty"`
	CustomIntegrations   bool   `json:"customIntegrations,omitempty"`
}

var table = map[string]Features{
	"starter": {
		MaxTokens:            3,
		MaxAirdropRecipients: 1000,
		Analytics:            "basic",
		Support:              "community",
	},
	"pro": {
		MaxTokens:            Unlimited,
		MaxAirdropRecipients: 50000,
		Analytics:            "advanced",
		Support:              "priority",
		Vesting:              true,
		LPManagement:         true,
	},
	"enterprise": {
		MaxTokens:            Unlimited,
		MaxAirdropRecipients: Unlimited,
		Analytics:            "advanced",
		Support:              "dedicated",
		Vesting:              true,
		LPManagement:         true,
		WhiteLabel:           true,
		CustomIntegrations:   true,
	},
}

// For returns the features of a plan, falling back to starter for unknown
// plan names.
func For(plan string) Features {
	if f, ok := table[plan]; ok {
		return f
	}
	return table["starter"]
}

// Known reports whether plan is a defined plan name.
func Known(plan string) bool {
	_, ok := table[plan]
	return ok
}
