// Package insight derives operator hints from tickets. Every function here
// is pure and total: absent optional data counts as "not present" and no
// function returns an error.
package insight

import "stealthcompany.com/opsboard/internal/ticket"

// Bucket is an SLA urgency class
type Bucket string

const (
	Urgent  Bucket = "urgent"
	Watch   Bucket = "watch"
	OnTrack Bucket = "on-track"
)

// SLA thresholds in hours, inclusive
const (
	UrgentHours = 2
	WatchHours  = 6
)

// SLABucket classifies the hours left before the SLA deadline.
func SLABucket(hours int) Bucket {
	switch {
	case hours <= UrgentHours:
		return Urgent
	case hours <= WatchHours:
		return Watch
	default:
		return OnTrack
	}
}

// Color is the highlight used for a bucket in list views.
func (b Bucket) Color() string {
	switch b {
	case Urgent:
		return "red"
	case Watch:
		return "yellow"
	default:
		return "green"
	}
}

// HighPriority flags tickets that should jump the queue.
func HighPriority(t ticket.Ticket) bool {
	return SLABucket(t.SLAHours) == Urgent ||
		(t.AccountType == ticket.AccountTrust && t.Exceptions > 0) ||
		t.Concerns.Escalated
}
