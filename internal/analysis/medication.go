package analysis

import (
	"fmt"
	"sort"

	"github.com/lunahealth/backend/internal/models"
)

const (
	minMedicationLogs    = 7
	adherenceDropMin     = 0.2
	steadyAdherenceLogs  = 14
	steadyAdherenceFloor = 0.9
)

// analyzeMedication watches adherence over the window. A drop between
// the first and second half of the logs yields a nudge; long steady
// adherence yields positive reinforcement. At most one insight.
func analyzeMedication(actx *models.AnalysisContext) []models.Insight {
	logs := make([]models.MedicationLog, len(actx.Medications))
	copy(logs, actx.Medications)
	if len(logs) < minMedicationLogs {
		return nil
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].LoggedAt.Before(logs[j].LoggedAt)
	})

	adherence := func(part []models.MedicationLog) float64 {
		took := 0
		for _, l := range part {
			if l.TookMedication {
				took++
			}
		}
		return float64(took) / float64(len(part))
	}

	half := len(logs) / 2
	first := adherence(logs[:half])
	second := adherence(logs[half:])
	overall := adherence(logs)

	if first-second > adherenceDropMin {
		return []models.Insight{{
			Type:  models.InsightTypeRecommendation,
			Title: "Your medication routine is slipping",
			Description: fmt.Sprintf(
				"You took your medication %.0f%% of the time recently, down from %.0f%% earlier. A fixed daily reminder can help rebuild the habit.",
				second*100, first*100),
			Confidence:     confidence(len(logs)),
			RelatedMetrics: []string{"medication"},
			Metadata: map[string]interface{}{
				"first_half_adherence":  first,
				"second_half_adherence": second,
				"log_count":             len(logs),
			},
		}}
	}

	if len(logs) >= steadyAdherenceLogs && overall >= steadyAdherenceFloor {
		return []models.Insight{{
			Type:  models.InsightTypeRecommendation,
			Title: "Strong medication consistency",
			Description: fmt.Sprintf(
				"You took your medication %.0f%% of the time across %d logs. Keeping this rhythm makes your other health data much easier to interpret.",
				overall*100, len(logs)),
			Confidence:     confidence(len(logs)),
			RelatedMetrics: []string{"medication"},
			Metadata: map[string]interface{}{
				"adherence": overall,
				"log_count": len(logs),
			},
		}}
	}

	return nil
}
