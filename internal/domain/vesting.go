package domain

// ScheduleStatus is the lifecycle state of a vesting schedule.
type ScheduleStatus string

const (
	ScheduleStatusActive    ScheduleStatus = "active"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusRevoked   ScheduleStatus = "revoked"
)

// IsValid checks if the status is a valid value.
func (s ScheduleStatus) IsValid() bool {
	return s == ScheduleStatusActive || s == ScheduleStatusCompleted || s == ScheduleStatusRevoked
}

// VestingIntent is a client request to create a vesting schedule.
// Timestamps are unix milliseconds; durations are seconds.
type VestingIntent struct {
	MintAddress     string `json:"mintAddress"`     // token mint (base58)
	Beneficiary     string `json:"beneficiary"`     // receiving wallet (base58)
	TotalAmount     uint64 `json:"totalAmount"`     // total grant in base units
	StartTime       int64  `json:"startTime"`       // vesting start, unix ms
	CliffDuration   int64  `json:"cliffDuration"`   // cliff length in seconds (0 = no cliff)
	VestingDuration int64  `json:"vestingDuration"` // total vesting length in seconds, > 0
	Owner           string `json:"ownerPublicKey"`  // granting wallet (base58)
}

// VestingSchedule is the registry-owned descriptor of a token vesting grant.
// Corresponds to the vesting_schedules table in PostgreSQL.
type VestingSchedule struct {
	ID              string         `json:"id"`              // PRIMARY KEY, "vesting_<ms>_<suffix>"
	MintAddress     string         `json:"mintAddress"`     // token mint (base58)
	Beneficiary     string         `json:"beneficiary"`     // receiving wallet (base58)
	Owner           string         `json:"owner"`           // granting wallet (base58)
	TotalAmount     uint64         `json:"totalAmount"`     // total grant in base units
	StartTime       int64          `json:"startTime"`       // unix ms
	CliffEnd        int64          `json:"cliffEnd"`        // StartTime + cliff*1000, unix ms
	VestingEnd      int64          `json:"vestingEnd"`      // StartTime + vesting*1000, unix ms
	AmountPerSecond float64        `json:"amountPerSecond"` // TotalAmount / vesting duration
	Claimed         uint64         `json:"claimed"`         // cumulative claimed, monotonically non-decreasing
	Status          ScheduleStatus `json:"status"`
	CreatedAt       int64          `json:"createdAt"` // record creation timestamp (ms)
}
