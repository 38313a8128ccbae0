package service

import (
	"time"

	"github.com/Rafuego/symphony-v3/internal/models"
)

// baseWindowHours is the product's turnaround window: every request gets 48
// hours of active work before it is overdue, plus any granted extensions.
const baseWindowHours = 48

// Countdown describes how much of a request's window is left at some instant.
type Countdown struct {
	Expired          bool    `json:"expired"`
	Hours            int     `json:"hours"`
	Minutes          int     `json:"minutes"`
	PercentRemaining float64 `json:"percentRemaining"`
	TotalHours       int     `json:"totalHours"`
}

// Remaining computes the countdown for a request at the given instant. The
// second return is false when the request has never started active work and
// therefore has no deadline.
func Remaining(r *models.Request, now time.Time) (Countdown, bool) {
	if r.StartedAt == nil {
		return Countdown{}, false
	}

	totalHours := baseWindowHours + r.ExtensionHours
	total := time.Duration(totalHours) * time.Hour
	deadline := r.StartedAt.Add(total)

	left := deadline.Sub(now)
	if left <= 0 {
		return Countdown{Expired: true, TotalHours: totalHours}, true
	}

	return Countdown{
		Hours:            int(left / time.Hour),
		Minutes:          int((left % time.Hour) / time.Minute),
		PercentRemaining: 100 * float64(left) / float64(total),
		TotalHours:       totalHours,
	}, true
}
