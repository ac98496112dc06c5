package attendance

import (
	"time"
)

// Record is one employee's presence on one calendar date.
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time
	IsPresent  bool
	CheckedBy  string
	CheckedAt  time.Time
	Note       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BalanceDelta computes the running-balance change caused by moving a day
// from previous (nil when the day had no record) to isPresent. Inside a
// locked period a present day is never clawed back.
func BalanceDelta(previous *bool, isPresent, locked bool, dailyRate int64) int64 {
	wasPresent := previous != nil && *previous
	switch {
	case !wasPresent && isPresent:
		return dailyRate
	case wasPresent && !isPresent:
		if locked {
			return 0
		}
		return -dailyRate
	default:
		return 0
	}
}
