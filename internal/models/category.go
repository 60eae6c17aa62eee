package models

// placeTypes maps form categories onto Google place types.
var placeTypes = map[string]string{
	"business":   "establishment",
	"restaurant": "restaurant",
	"shop":       "store",
	"landmark":   "point_of_interest",
	"home":       "home_goods_store", // closest match
	"other":      "establishment",
}

// PlaceType returns the Google place type for a category, falling back to
// "establishment" for anything unknown.
func PlaceType(category string) string {
	if t, ok := placeTypes[category]; ok {
		return t
	}
	return "establishment"
}
