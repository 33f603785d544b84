package comparison

import (
	"fmt"

	"go-model-comparator/pkg/models"
)

// NoWinner is the sentinel used for every ranking field when no model
// produced scorable output.
const NoWinner = "none"

// Recommendation tiers keyed on the winner's overall score.
const (
	poorScoreCeiling     = 3.0
	moderateScoreCeiling = 6.0
	goodScoreCeiling     = 8.0
)

// Summarize folds per-model metrics into cross-model rankings. Failed or
// unscored models are excluded from every ranking but still appear in the
// results slice. All ties break to the model listed first in the request,
// which keeps the output deterministic.
func Summarize(results []models.ModelResult, metricsSummary []models.ModelMetrics) models.ComparisonSummary {
	summary := models.ComparisonSummary{
		TotalModels:         len(results),
		Winner:              NoWinner,
		FastestModel:        NoWinner,
		SlowestModel:        NoWinner,
		MostDetailedModel:   NoWinner,
		HighestQualityModel: NoWinner,
		MetricsSummary:      metricsSummary,
	}
	if summary.MetricsSummary == nil {
		summary.MetricsSummary = []models.ModelMetrics{}
	}
	if len(metricsSummary) == 0 {
		summary.Recommendation = "No model completed successfully; nothing to rank."
		return summary
	}

	fastest := metricsSummary[0]
	slowest := metricsSummary[0]
	mostDetailed := metricsSummary[0]
	best := metricsSummary[0]
	for _, m := range metricsSummary[1:] {
		// strict comparisons keep the earliest entry on ties
		if m.ExecutionTime < fastest.ExecutionTime {
			fastest = m
		}
		if m.ExecutionTime > slowest.ExecutionTime {
			slowest = m
		}
		if m.WordCount > mostDetailed.WordCount {
			mostDetailed = m
		}
		if m.OverallScore > best.OverallScore {
			best = m
		}
	}

	summary.FastestModel = fastest.ModelName
	summary.SlowestModel = slowest.ModelName
	summary.MostDetailedModel = mostDetailed.ModelName
	summary.HighestQualityModel = best.ModelName
	summary.Winner = best.ModelName
	summary.Recommendation = recommendation(best)
	return summary
}

func recommendation(winner models.ModelMetrics) string {
	switch {
	case winner.OverallScore < poorScoreCeiling:
		return fmt.Sprintf(
			"No model performed satisfactorily; %s scored best at %.1f/10. Consider a different image or model set.",
			winner.ModelName, winner.OverallScore)
	case winner.OverallScore < moderateScoreCeiling:
		return fmt.Sprintf(
			"%s was the best with a moderate overall score of %.1f/10. There is room for improvement.",
			winner.ModelName, winner.OverallScore)
	case winner.OverallScore < goodScoreCeiling:
		return fmt.Sprintf(
			"%s showed good overall performance with a score of %.1f/10.",
			winner.ModelName, winner.OverallScore)
	default:
		return fmt.Sprintf(
			"%s delivered excellent results with an overall score of %.1f/10.",
			winner.ModelName, winner.OverallScore)
	}
}
