// Package scoring converts the heterogeneous score representations produced by
// the analysis services into canonical 0-100 values.
//
// Normalize accepts absent values, 0-1 fractions, 0-100 percentages, and
// numeric strings. RatingBand and AnswerQuality map textual answer ratings onto
// fixed bands. AudioAggregator keeps the session-wide mean of audio confidence
// samples above the noise floor, and SuccessScore derives the headline number
// shown on the report.
package scoring
