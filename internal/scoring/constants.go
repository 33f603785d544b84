package scoring

// Policy constants for the quality heuristics. These are tunables, not laws;
// tests assert on them so a change here is a deliberate, visible decision.
const (
	// has_detailed_description: minimum whitespace-delimited words
	DetailedWordThreshold = 40

	// uses_english: minimum distinct stop-word hits in the response
	EnglishHitThreshold = 4

	// well_structured: minimum sentence count, punctuation per word bounds,
	// and a cap on mean sentence length to catch run-on blocks
	MinSentences        = 3
	PunctDensityMin     = 0.02
	PunctDensityMax     = 0.5
	MaxAvgSentenceWords = 45.0

	// quality_score composition, saturating at 10
	EnglishWeight    = 2.0
	StructuredWeight = 2.5
	DetailedWeight   = 2.5
	LengthBonusCap   = 3.0
	LengthBonusWords = 20.0 // words per bonus point

	// Default blend of quality_score and rescaled itm_score into
	// overall_score. Overridable through configuration.
	DefaultQualityWeight = 0.7
	DefaultITMWeight     = 0.3
)
