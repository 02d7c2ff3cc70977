package dto

import "strings"

// TagNameRequest names a single tag.
type TagNameRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// TagsRequest is a JSON array of tag names.
type TagsRequest []TagNameRequest

// Names returns the trimmed names in order without duplicates.
func (r TagsRequest) Names() []string {
	seen := make(map[string]struct{}, len(r))
	names := make([]string, 0, len(r))
	for _, t := range r {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
