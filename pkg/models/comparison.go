package models

// Provider identifies an external AI service family.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// ModelConfig selects one model for a comparison run.
// ModelName may be omitted only when the provider exposes a single model.
type ModelConfig struct {
	Provider  Provider `json:"provider"`
	ModelName string   `json:"model_name,omitempty"`
}

// ImageInfo describes the uploaded image after normalization.
// It is computed once per request and never mutated afterwards.
type ImageInfo struct {
	Format string `json:"format"`
	Mode   string `json:"mode"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ModelResult is the outcome of one model invocation. Exactly one of
// (Success with Response) or (!Success with Error) holds.
type ModelResult struct {
	ModelName     string   `json:"model_name"`
	Provider      Provider `json:"provider"`
	Response      string   `json:"response,omitempty"`
	ExecutionTime float64  `json:"execution_time"`
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
}

// ModelMetrics holds quality signals derived from one successful response.
// Failed models never get a metrics entry.
type ModelMetrics struct {
	ModelName              string   `json:"model_name"`
	Provider               Provider `json:"provider"`
	ExecutionTime          float64  `json:"execution_time"`
	UsesEnglish            bool     `json:"uses_english"`
	WellStructured         bool     `json:"well_structured"`
	HasDetailedDescription bool     `json:"has_detailed_description"`
	WordCount              int      `json:"word_count"`
	SentenceCount          int      `json:"sentence_count"`
	ResponseLength         int      `json:"response_length"`
	QualityScore           float64  `json:"quality_score"`
	ITMScore               float64  `json:"itm_score"`
	OverallScore           float64  `json:"overall_score"`
}

// ComparisonSummary aggregates per-model metrics into cross-model rankings.
// Ranking fields hold the sentinel value "none" when no model was scored.
type ComparisonSummary struct {
	TotalModels         int            `json:"total_models"`
	Winner              string         `json:"winner"`
	Recommendation      string         `json:"recommendation"`
	FastestModel        string         `json:"fastest_model"`
	SlowestModel        string         `json:"slowest_model"`
	MostDetailedModel   string         `json:"most_detailed_model"`
	HighestQualityModel string         `json:"highest_quality_model"`
	MetricsSummary      []ModelMetrics `json:"metrics_summary"`
}

// ComparisonResponse is the full payload returned for one comparison.
// Results keep the request order regardless of completion order.
type ComparisonResponse struct {
	Results            []ModelResult     `json:"results"`
	TotalExecutionTime float64           `json:"total_execution_time"`
	ImageInfo          ImageInfo         `json:"image_info"`
	Summary            ComparisonSummary `json:"summary"`
}
