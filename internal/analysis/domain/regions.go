package domain

import "sort"

// StateFIPS is the state every supported county belongs to (Indiana).
const StateFIPS = "18"

// supportedCounties is the fixed Central Indiana service area. County FIPS
// codes are the 3-digit within-state identifiers.
var supportedCounties = map[string]string{
	"011": "Boone",
	"057": "Hamilton",
	"059": "Hancock",
	"063": "Hendricks",
	"081": "Johnson",
	"095": "Madison",
	"097": "Marion",
	"109": "Morgan",
	"145": "Shelby",
}

// CountyName resolves a supported county FIPS to its name. The second return
// is false for counties outside the service area.
func CountyName(fips string) (string, bool) {
	name, ok := supportedCounties[fips]
	return name, ok
}

// SupportedCountyFIPS returns the service-area county codes in a stable order.
func SupportedCountyFIPS() []string {
	out := make([]string, 0, len(supportedCounties))
	for fips := range supportedCounties {
		out = append(out, fips)
	}
	sort.Strings(out)
	return out
}
