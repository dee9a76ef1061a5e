package catalog

import "strings"

// BuildGeoIndex maps each known city token to the campaign names containing
// that token, matched case-insensitively as a substring. Cities with no
// matching campaign are omitted entirely: absence from the map means "not
// selectable", never "selectable with no results".
func BuildGeoIndex(campaignNames []string, knownCities []string) map[string][]string {
	index := make(map[string][]string)
	for _, city := range knownCities {
		token := strings.ToLower(city)
		var matches []string
		for _, name := range campaignNames {
			if strings.Contains(strings.ToLower(name), token) {
				matches = append(matches, name)
			}
		}
		if len(matches) > 0 {
			index[city] = matches
		}
	}
	return index
}
