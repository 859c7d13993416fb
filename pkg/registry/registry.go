// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed activities.json
var defaultRegistry []byte

// Parse decodes a registry document.
func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry: %w", err)
	}
	return &reg, nil
}

// Default returns the registry of the stage workers shipped with this module.
func Default() *ActivityRegistry {
	reg, err := Parse(defaultRegistry)
	if err != nil {
		panic(err)
	}
	return reg
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}
