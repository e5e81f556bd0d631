package domain

// UnknownProperty is shown for units whose property cannot be found.
const UnknownProperty = "N/A"

// PropertyNames indexes property names by id.
func PropertyNames(props []Property) map[string]string {
	names := make(map[string]string, len(props))
	for _, p := range props {
		names[p.ID] = p.Name
	}
	return names
}

// PropertyName resolves id against names, falling back to UnknownProperty.
func PropertyName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return UnknownProperty
}
