package scoring

// Label bands. Non-overlapping fixed thresholds covering all of [0,100].
const (
	hotThreshold       = 80.0
	promisingThreshold = 65.0
	watchThreshold     = 50.0
	mehThreshold       = 35.0
)

// LabelFor maps a final score to its qualitative band.
func LabelFor(score float64) string {
	switch {
	case score >= hotThreshold:
		return "Hot"
	case score >= promisingThreshold:
		return "Promising"
	case score >= watchThreshold:
		return "Watch"
	case score >= mehThreshold:
		return "Meh"
	default:
		return "Pass"
	}
}
