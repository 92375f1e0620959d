// Package enc models external node classifier data: the raw document an
// operator supplies and the classes/parameters form puppet consumes.
package enc

import (
	"fmt"

	"localpuppet.io/cli/internal/core/domain"
)

const (
	KeyApp        = "app"
	KeyClasses    = "classes"
	KeyParameters = "parameters"
)

// Document is a loaded ENC document. It is read-only once constructed.
type Document struct {
	raw map[string]interface{}
}

// NewDocument wraps a decoded YAML mapping. A nil mapping is an empty document.
func NewDocument(raw map[string]interface{}) Document {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return Document{raw: raw}
}

// App returns the application identifier.
func (d Document) App() (string, error) {
	v, ok := d.raw[KeyApp]
	if !ok {
		return "", domain.NewValidationError("ERROR: Input YAML must have an '%s' key", KeyApp)
	}
	app, ok := v.(string)
	if !ok {
		return "", domain.Violation("'%s' must be a string, got %T", KeyApp, v)
	}
	return app, nil
}

// Get returns a top-level value and whether the key was present
func (d Document) Get(key string) (interface{}, bool) {
	v, ok := d.raw[key]
	return v, ok
}

// Len returns the number of top-level keys
func (d Document) Len() int {
	return len(d.raw)
}

// asMapping accepts both decoded mapping shapes yaml.v3 can produce. Puppet
// class and parameter names are strings, so non-string keys are formatted.
func asMapping(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}
