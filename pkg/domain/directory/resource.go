// Package directory exposes the assignable workers supplied by the
// external staff directory. Resources are read-only from the scheduling
// subsystem's point of view.
package directory

import "strings"

// Resource is a worker a job can be booked against.
type Resource struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// IsZero reports whether the resource is the empty value.
func (r Resource) IsZero() bool {
	return strings.TrimSpace(r.ID) == ""
}

// Service lists the resources available for assignment.
type Service interface {
	ListResources() ([]Resource, error)
}

// Index builds an ID lookup over a resource list.
func Index(resources []Resource) map[string]Resource {
	byID := make(map[string]Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}
	return byID
}
