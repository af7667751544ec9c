package enrichment

import "github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"

// profiles is the neighborhood enrichment table. Populated offline by the
// one-time mapper scripts (walk scores, school ratings, crime data, amenity
// counts, notable retail anchors) and embedded here; read-only at runtime.
var profiles = map[string]domain.NeighborhoodProfile{
	"Indianapolis - Eastside": {
		WalkScore: 52, SchoolRating: 4.2, SafetyScore: 38, AmenityScore: 45,
	},
	"Indianapolis - South/Southeast": {
		WalkScore: 48, SchoolRating: 6.1, SafetyScore: 68, AmenityScore: 38,
	},
	"Indianapolis - Far Eastside": {
		WalkScore: 41, SchoolRating: 3.8, SafetyScore: 35, AmenityScore: 30,
	},
	"Indianapolis - Near Eastside/Downtown": {
		WalkScore: 75, SchoolRating: 5.5, SafetyScore: 55, AmenityScore: 72,
		NotableRetail: true,
	},
	"Indianapolis - Outlying Areas": {
		WalkScore: 35, SchoolRating: 6.8, SafetyScore: 82, AmenityScore: 25,
	},
	"Anderson - Far West": {
		WalkScore: 44, SchoolRating: 5.2, SafetyScore: 61, AmenityScore: 33,
	},
	"Anderson - East Side (North)": {
		WalkScore: 39, SchoolRating: 4.9, SafetyScore: 58, AmenityScore: 28,
	},
	"Anderson - East Side (Central)": {
		WalkScore: 46, SchoolRating: 4.4, SafetyScore: 49, AmenityScore: 41,
	},
	"Hamilton County - Outlying Areas Subarea": {
		WalkScore: 30, SchoolRating: 8.6, SafetyScore: 88, AmenityScore: 22,
		NotableRetail: true,
	},
	"Boone County - Outlying Areas Subarea": {
		WalkScore: 28, SchoolRating: 8.1, SafetyScore: 86, AmenityScore: 18,
	},
	"Hendricks County - Outlying Areas Subarea": {
		WalkScore: 31, SchoolRating: 7.4, SafetyScore: 84, AmenityScore: 21,
	},
	"Johnson County - Outlying Areas Subarea": {
		WalkScore: 33, SchoolRating: 6.9, SafetyScore: 79, AmenityScore: 26,
	},
}

// Profile returns the enrichment record for a neighborhood. Unknown
// neighborhoods get the neutral zero profile, which contributes no bonus and
// no penalty.
func Profile(neighborhood string) (domain.NeighborhoodProfile, bool) {
	p, ok := profiles[neighborhood]
	if !ok {
		return domain.NeighborhoodProfile{}, false
	}
	return p, true
}
