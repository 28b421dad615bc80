package scoring

// DefaultNoiseFloor is the audio confidence at or below which samples are ignored.
const DefaultNoiseFloor = 5

// AudioAggregator keeps a running sum and count of audio confidence samples
// strictly above the noise floor. It is never windowed and lives for a whole
// session. It is not safe for concurrent use; the session controller owns it.
type AudioAggregator struct {
	floor float64
	sum   float64
	count int
}

// NewAudioAggregator returns an aggregator that ignores samples at or below floor.
func NewAudioAggregator(floor float64) *AudioAggregator {
	return &AudioAggregator{floor: floor}
}

// Observe records v when it exceeds the noise floor and reports whether it counted.
func (a *AudioAggregator) Observe(v float64) bool {
	if v <= a.floor {
		return false
	}
	a.sum += v
	a.count++
	return true
}

// Mean returns round(sum/count), or 0 when nothing qualified.
func (a *AudioAggregator) Mean() int {
	if a.count == 0 {
		return 0
	}
	return Round(a.sum / float64(a.count))
}

// Count returns the number of qualifying samples.
func (a *AudioAggregator) Count() int {
	return a.count
}
