// Package scoring computes the collectability priority of a receivable.
//
// Every function is pure: the reference time is always a parameter, so
// identical inputs yield identical output regardless of when they run.
package scoring

import (
	"math"
	"time"

	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
)

const (
	// Overdue age saturates at 120 days.
	maxOverdueDays = 120
	// Open amount saturates at $100k on a log10 scale, so score growth
	// flattens for very large balances.
	maxScoredAmount = 100_000

	weightOverdueAge   = 0.4
	weightOpenAmount   = 0.3
	weightLateRate     = 0.2
	weightInvoiceCount = 0.1

	urgentThreshold   = 80
	followUpThreshold = 50
)

// Input carries the per-invoice and per-customer signals for one score.
// LateRate and OpenInvoiceCount are optional customer history; nil means the
// customer is unknown.
type Input struct {
	DaysOverdue      int
	OpenAmount       float64
	LateRate         *float64
	OpenInvoiceCount *int
}

// Result is the scoring outcome attached to a persisted invoice.
type Result struct {
	PriorityScore int
	RiskTier      invoicedomain.RiskTier
	AgingBucket   invoicedomain.AgingBucket
}

// DaysOverdue returns whole days elapsed since the due date at day
// granularity, clamped at zero. A not-yet-due invoice has zero overdue days.
func DaysOverdue(dueDate, now time.Time) int {
	due := truncateToDay(dueDate)
	ref := truncateToDay(now)

	days := int(math.Floor(ref.Sub(due).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// Bucket maps days overdue onto an aging bucket. Boundaries are exact and
// non-overlapping, evaluated most severe first.
func Bucket(daysOverdue int) invoicedomain.AgingBucket {
	switch {
	case daysOverdue >= 90:
		return invoicedomain.BucketOver90
	case daysOverdue >= 61:
		return invoicedomain.BucketDays61_90
	case daysOverdue >= 31:
		return invoicedomain.BucketDays31_60
	default:
		return invoicedomain.BucketCurrent
	}
}

// PriorityScore computes the weighted composite urgency score on a 0-100
// scale. Each term is normalized to [0,1] before weighting, so the result is
// bounded by construction.
func PriorityScore(in Input) int {
	overdue := math.Min(float64(in.DaysOverdue), maxOverdueDays) / maxOverdueDays

	amount := 0.0
	if in.OpenAmount > 0 {
		capped := math.Min(in.OpenAmount, maxScoredAmount)
		amount = math.Log10(capped+1) / math.Log10(maxScoredAmount+1)
	}

	lateRate := 0.0
	if in.LateRate != nil {
		lateRate = *in.LateRate
	}

	count := 1
	if in.OpenInvoiceCount != nil {
		count = *in.OpenInvoiceCount
	}
	invoiceCount := math.Min(float64(count), 10) / 10

	score := overdue*weightOverdueAge +
		amount*weightOpenAmount +
		lateRate*weightLateRate +
		invoiceCount*weightInvoiceCount

	return int(math.Round(score * 100))
}

// TierFor classifies a priority score.
func TierFor(priorityScore int) invoicedomain.RiskTier {
	switch {
	case priorityScore >= urgentThreshold:
		return invoicedomain.RiskTierUrgent
	case priorityScore >= followUpThreshold:
		return invoicedomain.RiskTierFollowUp
	default:
		return invoicedomain.RiskTierMonitor
	}
}

// Score composes the full scoring result for one invoice.
func Score(in Input) Result {
	priorityScore := PriorityScore(in)
	return Result{
		PriorityScore: priorityScore,
		RiskTier:      TierFor(priorityScore),
		AgingBucket:   Bucket(in.DaysOverdue),
	}
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
