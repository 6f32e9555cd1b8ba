package blog

import "strings"

// AverageReadingSpeedWPM is the words-per-minute constant used for the
// read-time estimate.
const AverageReadingSpeedWPM = 225

// EstimateReadTime returns the estimated reading time in whole minutes,
// rounded up. Only text blocks contribute words; an empty post yields 0,
// which callers present as "under a minute".
func EstimateReadTime(blocks []Block) int {
	words := 0
	for _, b := range blocks {
		if t, ok := b.(TextBlock); ok {
			words += len(strings.Fields(t.Content))
		}
	}
	return (words + AverageReadingSpeedWPM - 1) / AverageReadingSpeedWPM
}
