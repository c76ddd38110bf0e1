package forensic

import "strings"

// AIHeuristicSignal is the calibrated AI-generation heuristic: a bounded score
// built from fixed increments plus the flags that contributed to it. It is not
// an inferred probability.
type AIHeuristicSignal struct {
	Score    int      `json:"score"`
	LikelyAI bool     `json:"likely_ai"`
	Flags    []string `json:"flags"`
}

// ScoreAIHeuristic estimates how consistent the asset is with generative-model
// output, from resolution, metadata presence and the software tag.
func ScoreAIHeuristic(asset *ImageAsset, record *MetadataRecord, policy ScoringPolicy) AIHeuristicSignal {
	score := policy.AIBaseScore
	var flags []string

	if isGenerativeResolution(asset.Width, asset.Height, policy) {
		score += policy.AISquareResolution
		flags = append(flags, "resolution matches known generative-model output size")
	}
	if asset.Width*asset.Height < 1_000_000 {
		score += policy.AISubMegapixel
		flags = append(flags, "sub-megapixel resolution")
	}
	if record.AllDescriptiveFieldsMissing() {
		score += policy.AIMissingMetadata
		flags = append(flags, "all embedded metadata missing")
	}
	if hasGenerativeSoftwareTag(record.Software, policy) {
		score += policy.AIGenerativeSoftware
		flags = append(flags, "software tag matches known generative tool")
	}

	if score > 100 {
		score = 100
	}
	return AIHeuristicSignal{
		Score:    score,
		LikelyAI: score > policy.AILikelyCutoff,
		Flags:    flags,
	}
}

func isGenerativeResolution(width, height int, policy ScoringPolicy) bool {
	if width != height {
		return false
	}
	for _, size := range policy.GenerativeImageSizes {
		if width == size {
			return true
		}
	}
	return false
}

func hasGenerativeSoftwareTag(software StringField, policy ScoringPolicy) bool {
	if !software.Present() {
		return false
	}
	tag := strings.ToLower(software.Value)
	for _, marker := range policy.GenerativeToolMarkers {
		if strings.Contains(tag, marker) {
			return true
		}
	}
	return false
}
