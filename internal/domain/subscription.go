package domain

// Subscription is a SaaS plan subscription record returned to the caller.
// Payment verification and durable billing state live outside this service.
type Subscription struct {
	ID            string `json:"id"` // "sub_<ms>"
	WalletAddress string `json:"walletAddress"`
	Plan          string `json:"plan"`
	Status        string `json:"status"`
	StartDate     string `json:"startDate"` // RFC3339
	EndDate       string `json:"endDate"`   // RFC3339, 30 days after start
}
