package ocr

import (
	"regexp"
	"strings"
)

var (
	reEmail     = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	rePhone     = regexp.MustCompile(`\+?\d[\d\s().\-]{8,}\d`)
	reYearRange = regexp.MustCompile(`\b(19|20)\d{2}\s*(-|to)\s*((19|20)\d{2}|present|current)\b`)
	reHeading   = regexp.MustCompile(`(?m)^(experience|education|skills|projects|summary)\b`)
)

// heuristicConfidence scores decoded text by how resume-shaped it looks.
func heuristicConfidence(txt string) float32 {
	if strings.TrimSpace(txt) == "" {
		return 0
	}
	txtL := strings.ToLower(txt)
	score := float32(0.2)
	if reEmail.MatchString(txtL) {
		score += 0.2
	}
	if rePhone.MatchString(txtL) {
		score += 0.1
	}
	if reYearRange.MatchString(txtL) {
		score += 0.2
	}
	if reHeading.MatchString(txtL) {
		score += 0.15
	}
	if len(txt) > 400 {
		score += 0.15
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
