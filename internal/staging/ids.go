package staging

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newScheduleID builds a vesting schedule id: creation time in unix ms plus
// a random suffix wide enough to avoid collisions between schedules created
// in the same millisecond.
func newScheduleID(now time.Time) string {
	return fmt.Sprintf("vesting_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}
