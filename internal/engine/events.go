package engine

import (
	"fmt"
	"strings"

	"github.com/laundrobench/laundrobench/internal/models"
)

// Event vocabulary. Tape lines are free text; an event fires when its token
// appears as a substring (case-insensitive). Lines matching nothing are
// dropped without a log or an effect.
const (
	EventRentHike         = "rent-hike"
	EventFactoryRecall    = "factory-recall"
	EventCompetitorOpened = "competitor-opened"
	EventHealthInspector  = "health-inspector"
	EventLoanShark        = "loan-shark"
	EventPowerOutage      = "power-outage"
	EventScammer          = "scammer"
	EventTheft            = "theft"
)

// applyEvents runs the scripted tape for the given day. The returned pointer,
// when non-nil, overrides today's demand (the power outage zeroes it).
func (e *Engine) applyEvents(day int, logs *[]string) *int {
	st := e.state
	var demandOverride *int

	for _, line := range e.scen.Events[day] {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, EventRentHike):
			e.rentMult *= 1.10
			*logs = append(*logs, line)

		case strings.Contains(lower, EventFactoryRecall):
			for _, m := range st.Machines {
				m.Status = models.StatusBroken
				m.Health = 0.0
			}
			*logs = append(*logs, line)

		case strings.Contains(lower, EventCompetitorOpened):
			e.competitorOpened = true
			*logs = append(*logs, line)

		case strings.Contains(lower, EventHealthInspector):
			*logs = append(*logs, line)
			if st.CustomerSatisfaction < 90 {
				st.Cash -= 500
				*logs = append(*logs, "FINE: Failed health inspection! -$500")
			}

		case strings.Contains(lower, EventLoanShark):
			st.Cash -= 500
			*logs = append(*logs, line)

		case strings.Contains(lower, EventPowerOutage):
			zero := 0
			demandOverride = &zero
			*logs = append(*logs, line)
			*logs = append(*logs, "CRITICAL: Power outage. No customers served today.")

		case strings.Contains(lower, EventScammer):
			st.Cash -= 200
			*logs = append(*logs, line)

		case strings.Contains(lower, EventTheft):
			st.Inventory[models.ResourceSoap] /= 2
			*logs = append(*logs, line)
		}
	}
	return demandOverride
}

// TapeLine formats a tape entry that will match the given event token, for
// scenario authoring.
func TapeLine(token, detail string) string {
	return fmt.Sprintf("NEWS [%s]: %s", token, detail)
}
