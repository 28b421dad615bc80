package scoring

// SuccessScore weights answer quality at 70% and the average of visual and
// audio confidence at 30%.
func SuccessScore(answerQuality, visualConfidence, audioConfidence float64) int {
	return Round(0.7*answerQuality + 0.3*((visualConfidence+audioConfidence)/2))
}
