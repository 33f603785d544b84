// Package scoring derives per-model quality metrics from raw invocation
// results: textual heuristics plus an external image-text-matching score,
// blended into one overall score.
package scoring

import (
	"context"

	apperrors "go-model-comparator/internal/errors"
	"go-model-comparator/internal/imaging"
	"go-model-comparator/pkg/models"
)

type Scorer struct {
	text          *TextAnalyzer
	itm           ITMScorer
	qualityWeight float64
	itmWeight     float64
}

// NewScorer builds a scorer with the given overall-score weights. The weights
// are normalized by their sum, so only their ratio matters.
func NewScorer(itm ITMScorer, qualityWeight, itmWeight float64) *Scorer {
	if qualityWeight <= 0 && itmWeight <= 0 {
		qualityWeight = DefaultQualityWeight
		itmWeight = DefaultITMWeight
	}
	return &Scorer{
		text:          NewTextAnalyzer(),
		itm:           itm,
		qualityWeight: qualityWeight,
		itmWeight:     itmWeight,
	}
}

// Score computes metrics for one result. Failed results yield (nil, nil): a
// failed model has no metrics entry. An ITM capability failure is a scoring
// error for this model alone.
func (s *Scorer) Score(ctx context.Context, result models.ModelResult, img *imaging.NormalizedImage) (*models.ModelMetrics, error) {
	if !result.Success {
		return nil, nil
	}

	analysis := s.text.Analyze(result.Response)

	itmScore, err := s.itm.Score(ctx, img.Base64, result.Response)
	if err != nil {
		return nil, apperrors.NewScoringError("image-text matching failed for "+result.ModelName, err)
	}

	return &models.ModelMetrics{
		ModelName:              result.ModelName,
		Provider:               result.Provider,
		ExecutionTime:          result.ExecutionTime,
		UsesEnglish:            analysis.UsesEnglish,
		WellStructured:         analysis.WellStructured,
		HasDetailedDescription: analysis.HasDetailedDescription,
		WordCount:              analysis.WordCount,
		SentenceCount:          analysis.SentenceCount,
		ResponseLength:         analysis.ResponseLength,
		QualityScore:           analysis.QualityScore,
		ITMScore:               itmScore,
		OverallScore:           s.overall(analysis.QualityScore, itmScore),
	}, nil
}

// overall blends quality_score with the ITM score rescaled to [0,10].
func (s *Scorer) overall(quality, itm float64) float64 {
	sum := s.qualityWeight + s.itmWeight
	score := (s.qualityWeight*quality + s.itmWeight*itm*10) / sum
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}
