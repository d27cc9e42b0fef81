package bundle

import (
	"fmt"
	"time"
)

// Bundle is an in-memory working copy of a tracking record. The Notion data source stays
// the source of truth; a Bundle lives for one run and is either saved back or dropped.
type Bundle struct {
	Id            string
	Name          string
	EstimatedDays float64
	StartDate     time.Time
	Status        Status

	spentDays float64
	exceeded  bool
}

// NewBundle builds a bundle whose exceeded flag is consistent with spentDays.
func NewBundle(id, name string, estimatedDays, spentDays float64, startDate time.Time) *Bundle {
	b := &Bundle{
		Id:            id,
		Name:          name,
		EstimatedDays: estimatedDays,
		StartDate:     startDate,
	}
	b.SetSpentDays(spentDays)
	return b
}

func (b *Bundle) SpentDays() float64 {
	return b.spentDays
}

// Exceeded reports the flag as last read from the record or recomputed by SetSpentDays.
func (b *Bundle) Exceeded() bool {
	return b.exceeded
}

// SetSpentDays is the only way to change spentDays and exceeded.
func (b *Bundle) SetSpentDays(days float64) {
	b.spentDays = days
	b.exceeded = days > b.EstimatedDays
}

func (b *Bundle) String() string {
	return fmt.Sprintf("Bundle(name: %s, spentDays: %g, estimatedDays: %g, exceeded: %t)",
		b.Name, b.spentDays, b.EstimatedDays, b.exceeded)
}
