// Package strategy selects how a model is prompted based on its
// capabilities. Models without vision support are never rejected: they get a
// textual description of the image instead of the image itself.
package strategy

import (
	"fmt"

	"go-model-comparator/pkg/models"
)

// SystemPrompt is shared by every invocation so responses stay comparable.
const SystemPrompt = `You are an expert image analyst.
Your task is to extract and summarize only the explicit, visible content of a single image.

Guidelines:
- Focus on the main idea or subject of the image.
- Use clear, factual language based strictly on what appears in the image.
- Do NOT make assumptions or add outside knowledge.
- Do NOT speculate or interpret implicit meanings.
Return a well-structured summary of the visible content of the image, in English.`

// PromptStrategy builds the user prompt for one model.
type PromptStrategy interface {
	BuildPrompt(info models.ImageInfo) (prompt string, attachImage bool)
	GetStrategyName() string
}

// VisionPromptStrategy attaches the image and keeps the prompt short.
type VisionPromptStrategy struct{}

func (s VisionPromptStrategy) BuildPrompt(info models.ImageInfo) (string, bool) {
	return fmt.Sprintf(
		"Analyze this image following the system instructions. "+
			"The image is in %s format with dimensions %dx%d pixels.",
		info.Format, info.Width, info.Height), true
}

func (s VisionPromptStrategy) GetStrategyName() string {
	return "vision_prompt"
}

// TextOnlyPromptStrategy degrades to a description of the image metadata so a
// text-based answer remains meaningful.
type TextOnlyPromptStrategy struct{}

func (s TextOnlyPromptStrategy) BuildPrompt(info models.ImageInfo) (string, bool) {
	return fmt.Sprintf(
		"Analyze an image with the following characteristics: "+
			"format %s, size %dx%d pixels, color mode %s. "+
			"Provide a detailed analysis of what an image with these technical "+
			"characteristics could contain.",
		info.Format, info.Width, info.Height, info.Mode), false
}

func (s TextOnlyPromptStrategy) GetStrategyName() string {
	return "text_only_prompt"
}

// ForCapability picks the strategy matching a model's vision support.
func ForCapability(hasVision bool) PromptStrategy {
	if hasVision {
		return VisionPromptStrategy{}
	}
	return TextOnlyPromptStrategy{}
}
