package importer

// Rule classifies a tagged feature into one node type. Rules belong to
// groups: within a group the first matching rule wins, but groups are
// evaluated independently, so a feature tagged with both an amenity and
// a man_made match produces one node per firing group.
type Rule struct {
	Group    string
	Match    func(tags map[string]string) bool
	NodeType string
}

func tagEquals(key, value string) func(map[string]string) bool {
	return func(tags map[string]string) bool {
		return tags[key] == value
	}
}

// ClassificationRules is the ordered rule table mapping raw map tags to
// node types. Extending coverage to a new asset category means adding a
// row here, nothing else.
var ClassificationRules = []Rule{
	{Group: "amenity", Match: tagEquals("amenity", "bank"), NodeType: "bank"},
	{Group: "amenity", Match: tagEquals("amenity", "school"), NodeType: "school"},
	{Group: "amenity", Match: tagEquals("amenity", "hospital"), NodeType: "hospital"},

	{Group: "man_made", NodeType: "tower", Match: func(tags map[string]string) bool {
		return tags["man_made"] == "tower" && tags["tower:type"] == "communication"
	}},
	{Group: "man_made", Match: tagEquals("man_made", "wastewater_plant"), NodeType: "waste_water_treatment"},
	{Group: "man_made", Match: tagEquals("man_made", "water_works"), NodeType: "water_treatment"},
}

// Classify evaluates the rule table against a tag set and returns the
// node types to create, in rule order. Empty when nothing matches.
func Classify(tags map[string]string) []string {
	var types []string
	fired := make(map[string]bool, 2)
	for _, r := range ClassificationRules {
		if fired[r.Group] {
			continue
		}
		if r.Match(tags) {
			fired[r.Group] = true
			types = append(types, r.NodeType)
		}
	}
	return types
}
