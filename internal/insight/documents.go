package insight

import (
	"fmt"
	"math"
	"strings"

	"stealthcompany.com/opsboard/internal/ticket"
)

// Band is a confidence colour band
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// ConfidenceBand thresholds a 0-100 confidence score.
func ConfidenceBand(confidence int) Band {
	switch {
	case confidence >= 90:
		return BandHigh
	case confidence >= 70:
		return BandMedium
	default:
		return BandLow
	}
}

// Color is the display colour for a band.
func (b Band) Color() string {
	switch b {
	case BandHigh:
		return "green"
	case BandMedium:
		return "yellow"
	default:
		return "red"
	}
}

func validatedDocuments(t ticket.Ticket) int {
	n := 0
	for _, d := range t.Documents {
		if d.Validated {
			n++
		}
	}
	return n
}

// Percent is a rounded share that is 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// DocumentValidatedPercent is the share of a ticket's documents already
// validated. A ticket with no documents is at 0%.
func DocumentValidatedPercent(t ticket.Ticket) int {
	return Percent(validatedDocuments(t), len(t.Documents))
}

// ProgressPercent is progress over total steps, 0 when totalSteps is 0.
func ProgressPercent(t ticket.Ticket) int {
	return Percent(t.Progress, t.TotalSteps)
}

// BadgeVariant is the visual treatment of a status badge
type BadgeVariant string

const (
	BadgeDefault     BadgeVariant = "default"
	BadgeSuccess     BadgeVariant = "success"
	BadgeWarning     BadgeVariant = "warning"
	BadgeDestructive BadgeVariant = "destructive"
)

// StatusBadge is what the list shows in the status column
type StatusBadge struct {
	Variant BadgeVariant `json:"variant"`
	Text    string       `json:"text"`
}

// Badge resolves the status badge. Exceptions always win over the status
// text.
func Badge(t ticket.Ticket) StatusBadge {
	if t.Exceptions > 0 {
		text := fmt.Sprintf("%d Exception", t.Exceptions)
		if t.Exceptions > 1 {
			text += "s"
		}
		return StatusBadge{Variant: BadgeDestructive, Text: text}
	}

	switch strings.ToLower(t.Status) {
	case "completed", "ready for approval", "pending approval":
		return StatusBadge{Variant: BadgeSuccess, Text: t.Status}
	case "escalated", "missing docs", "missing passport":
		return StatusBadge{Variant: BadgeDestructive, Text: t.Status}
	case "low confidence", "validating":
		return StatusBadge{Variant: BadgeWarning, Text: t.Status}
	}
	return StatusBadge{Variant: BadgeDefault, Text: t.Status}
}
