package models

import "strings"

// City is one entry of the static city table.
type City struct {
	Name string `json:"name" yaml:"name" example:"上海"`
	ID   string `json:"id" yaml:"id" example:"101020100"`
}

// FilterByName returns every city whose name contains query, in table order.
// Matching is case-sensitive. An empty query matches nothing.
func FilterByName(cities []City, query string) []City {
	if query == "" {
		return nil
	}

	var matches []City
	for _, c := range cities {
		if strings.Contains(c.Name, query) {
			matches = append(matches, c)
		}
	}

	return matches
}

// FindByID returns the index of the city with the given id, or -1 if not found
func FindByID(cities []City, id string) int {
	for i, c := range cities {
		if c.ID == id {
			return i
		}
	}
	return -1
}
