package enrichment

import (
	"fmt"
	"strconv"
	"strings"
)

// padTract left-pads a tract code to the canonical 6 digits.
func padTract(tract string) string {
	if len(tract) >= 6 {
		return tract
	}
	return strings.Repeat("0", 6-len(tract)) + tract
}

// tractHead is the leading 2-digit block of a tract code, used to bucket
// tracts into named subareas.
func tractHead(tract string) int {
	t := padTract(tract)
	head, err := strconv.Atoi(t[:2])
	if err != nil {
		return 0
	}
	return head
}

// Label buckets a tract into its neighborhood name. Marion and Madison county
// tracts map onto named city subareas; everything else gets a generic county
// subarea label.
func Label(countyName, tract string) string {
	head := tractHead(tract)

	if countyName == "Marion" {
		switch {
		case head <= 10:
			return "Indianapolis - Eastside"
		case head <= 20:
			return "Indianapolis - South/Southeast"
		case head <= 30:
			return "Indianapolis - Far Eastside"
		case head <= 40:
			return "Indianapolis - Near Eastside/Downtown"
		default:
			return "Indianapolis - Outlying Areas"
		}
	}

	if countyName == "Madison" {
		switch {
		case head <= 10:
			return "Anderson - Far West"
		case head <= 20:
			return "Anderson - East Side (North)"
		default:
			return "Anderson - East Side (Central)"
		}
	}

	return fmt.Sprintf("%s County - Outlying Areas Subarea", countyName)
}

// ZipForTract guesses the dominant zip code for a tract, for market lookups.
// Only counties with a known zip mapping return one.
func ZipForTract(countyFIPS, tract string) (string, bool) {
	switch countyFIPS {
	case "097":
		head := tractHead(tract)
		switch {
		case head <= 15:
			return "46219", true
		case head <= 25:
			return "46227", true
		default:
			return "46218", true
		}
	case "095":
		return "46016", true
	case "145":
		return "46176", true
	}
	return "", false
}

// HumanTractID formats a raw 6-digit tract code as the customary
// "NNNN.NN" identifier.
func HumanTractID(tract string) string {
	if tract == "" {
		return ""
	}
	t := padTract(tract)
	return t[:4] + "." + t[4:]
}
