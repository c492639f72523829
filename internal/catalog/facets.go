package catalog

// Facets lists the distinct regions and countries of a catalog in order of
// first appearance.
type Facets struct {
	Regions   []string `json:"regions"`
	Countries []string `json:"countries"`
}

// ComputeFacets collects distinct non-empty region and country values.
func ComputeFacets(treks []Trek) Facets {
	f := Facets{Regions: []string{}, Countries: []string{}}
	regions := map[string]bool{}
	countries := map[string]bool{}
	for _, t := range treks {
		if t.Region != "" && !regions[t.Region] {
			regions[t.Region] = true
			f.Regions = append(f.Regions, t.Region)
		}
		if t.Country != "" && !countries[t.Country] {
			countries[t.Country] = true
			f.Countries = append(f.Countries, t.Country)
		}
	}
	return f
}
