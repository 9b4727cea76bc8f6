package analysis

import (
	"fmt"
	"time"

	"github.com/lunahealth/backend/internal/models"
)

// CyclePhase is one of the four deterministic 28-day cycle phases.
type CyclePhase string

const (
	PhaseMenstruation CyclePhase = "menstruation"
	PhaseFollicular   CyclePhase = "follicular"
	PhaseOvulation    CyclePhase = "ovulation"
	PhaseLuteal       CyclePhase = "luteal"
)

const (
	cycleLengthDays   = 28
	minPhaseSymptoms  = 3
	phaseRateMultiple = 2.0
)

// PhaseForDay maps a cycle day offset to a phase using a fixed 28-day
// model: menstruation days 1-5, follicular 6-13, ovulation 14-16,
// luteal 17-28.
func PhaseForDay(cycleDay int) CyclePhase {
	switch {
	case cycleDay <= 5:
		return PhaseMenstruation
	case cycleDay <= 13:
		return PhaseFollicular
	case cycleDay <= 16:
		return PhaseOvulation
	default:
		return PhaseLuteal
	}
}

// TagPhase computes the cycle phase of a moment given the most recent
// cycle start. Days before the start have no phase.
func TagPhase(at, cycleStart time.Time, loc *time.Location) (CyclePhase, bool) {
	day := daysBetween(cycleStart, at, loc)
	if day < 0 {
		return "", false
	}
	return PhaseForDay(day%cycleLengthDays + 1), true
}

// daysBetween counts whole local days from a to b.
func daysBetween(a, b time.Time, loc *time.Location) int {
	al := a.In(loc)
	bl := b.In(loc)
	aDay := time.Date(al.Year(), al.Month(), al.Day(), 0, 0, 0, 0, loc)
	bDay := time.Date(bl.Year(), bl.Month(), bl.Day(), 0, 0, 0, 0, loc)
	return int(bDay.Sub(aDay) / (24 * time.Hour))
}

// lastCycleStart finds the most recent cycle-start log in the window.
func lastCycleStart(actx *models.AnalysisContext) (time.Time, bool) {
	var start time.Time
	found := false
	for _, log := range actx.Logs {
		if log.LogType != models.LogCycle {
			continue
		}
		if !found || log.LoggedAt.After(start) {
			start = log.LoggedAt
			found = true
		}
	}
	return start, found
}

// analyzeCycle tags symptom logs with a cycle phase and reports phases
// where symptoms cluster at a multiple of the other phases' rate.
func analyzeCycle(actx *models.AnalysisContext) []models.Insight {
	cycleStart, ok := lastCycleStart(actx)
	if !ok {
		return nil
	}

	// Count symptoms and tracked days per phase
	symptomsPerPhase := make(map[CyclePhase]int)
	for _, log := range actx.Logs {
		if log.LogType != models.LogSymptom {
			continue
		}
		phase, ok := TagPhase(log.LoggedAt, cycleStart, actx.Timezone)
		if !ok {
			continue
		}
		symptomsPerPhase[phase]++
	}

	daysPerPhase := make(map[CyclePhase]int)
	for d := actx.Window.Start; !d.After(actx.Window.End); d = d.AddDate(0, 0, 1) {
		phase, ok := TagPhase(d, cycleStart, actx.Timezone)
		if !ok {
			continue
		}
		daysPerPhase[phase]++
	}

	phases := []CyclePhase{PhaseMenstruation, PhaseFollicular, PhaseOvulation, PhaseLuteal}
	var out []models.Insight

	for _, phase := range phases {
		count := symptomsPerPhase[phase]
		days := daysPerPhase[phase]
		if count < minPhaseSymptoms || days == 0 {
			continue
		}
		rate := float64(count) / float64(days)

		var otherRates []float64
		for _, other := range phases {
			if other == phase || daysPerPhase[other] == 0 {
				continue
			}
			otherRates = append(otherRates, float64(symptomsPerPhase[other])/float64(daysPerPhase[other]))
		}
		if len(otherRates) == 0 {
			continue
		}
		baseline := mean(otherRates)
		if baseline > 0 && rate < phaseRateMultiple*baseline {
			continue
		}
		if baseline == 0 && count < minPhaseSymptoms {
			continue
		}

		out = append(out, models.Insight{
			Type:  models.InsightTypeCorrelation,
			Title: fmt.Sprintf("Symptoms cluster in your %s phase", phase),
			Description: fmt.Sprintf(
				"You logged %d symptoms across %d %s-phase days, well above your rate in the rest of the cycle.",
				count, days, phase),
			Confidence:     confidence(count),
			RelatedMetrics: []string{"cycle", "symptoms"},
			Metadata: map[string]interface{}{
				"phase":         string(phase),
				"symptom_count": count,
				"phase_days":    days,
				"phase_rate":    rate,
				"baseline_rate": baseline,
			},
		})
	}

	return out
}
