package scoring

import (
	"strings"
	"unicode"

	"gonum.org/v1/gonum/stat"
)

// englishStopwords are high-frequency English function words. A response
// whose dominant language is English will hit several of them; other
// languages will not.
var englishStopwords = map[string]struct{}{}

func init() {
	words := []string{
		"the", "and", "is", "in", "it", "you", "that", "he", "was", "for",
		"on", "are", "with", "as", "his", "they", "be", "at", "one", "have",
		"this", "from", "or", "had", "by", "but", "some", "what", "there",
		"we", "can", "out", "other", "were", "all", "your", "when", "up",
		"how", "said", "each", "which", "she", "do", "their", "time", "if",
		"will", "way", "about", "many", "then", "them", "would", "like",
		"so", "these", "her", "make", "see", "him", "two", "has", "look",
		"more", "could", "go", "come", "did", "my", "no", "most", "who",
		"over", "know", "than", "first", "may", "down", "been", "now",
	}
	for _, w := range words {
		englishStopwords[w] = struct{}{}
	}
}

// TextAnalysis holds the signals derived from one response text.
type TextAnalysis struct {
	WordCount              int
	SentenceCount          int
	ResponseLength         int
	UsesEnglish            bool
	WellStructured         bool
	HasDetailedDescription bool
	QualityScore           float64
}

type TextAnalyzer struct{}

func NewTextAnalyzer() *TextAnalyzer {
	return &TextAnalyzer{}
}

// Analyze derives all text signals. It is a pure function of the input, so
// scoring the same response twice yields identical results.
func (a *TextAnalyzer) Analyze(text string) TextAnalysis {
	words := strings.Fields(strings.ToLower(text))
	sentences := splitSentences(text)

	analysis := TextAnalysis{
		WordCount:      len(words),
		SentenceCount:  len(sentences),
		ResponseLength: len(text),
	}

	hits := 0
	seen := map[string]struct{}{}
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()[]")
		if _, isStop := englishStopwords[w]; !isStop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		hits++
	}
	analysis.UsesEnglish = hits >= EnglishHitThreshold

	analysis.WellStructured = a.wellStructured(text, words, sentences)
	analysis.HasDetailedDescription = analysis.WordCount >= DetailedWordThreshold
	analysis.QualityScore = a.qualityScore(analysis)
	return analysis
}

// wellStructured requires multiple sentences, punctuation density in a normal
// range, and no single run-on block (judged by mean sentence length).
func (a *TextAnalyzer) wellStructured(text string, words, sentences []string) bool {
	if len(sentences) < MinSentences || len(words) == 0 {
		return false
	}

	punct := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punct++
		}
	}
	density := float64(punct) / float64(len(words))
	if density < PunctDensityMin || density > PunctDensityMax {
		return false
	}

	lengths := make([]float64, len(sentences))
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
	}
	return stat.Mean(lengths, nil) <= MaxAvgSentenceWords
}

// qualityScore is a weighted sum of the boolean signals plus a length bonus
// that saturates, clipped to [0,10].
func (a *TextAnalyzer) qualityScore(t TextAnalysis) float64 {
	score := 0.0
	if t.UsesEnglish {
		score += EnglishWeight
	}
	if t.WellStructured {
		score += StructuredWeight
	}
	if t.HasDetailedDescription {
		score += DetailedWeight
	}

	bonus := float64(t.WordCount) / LengthBonusWords
	if bonus > LengthBonusCap {
		bonus = LengthBonusCap
	}
	score += bonus

	if score > 10 {
		score = 10
	}
	return score
}

func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
