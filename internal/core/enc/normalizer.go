package enc

import (
	"localpuppet.io/cli/internal/core/domain"
)

// Classification is the classifier output puppet reads through the exec
// node terminus. Classes values are never nil.
type Classification struct {
	Classes    map[string]map[string]interface{} `yaml:"classes"`
	Parameters map[string]interface{}            `yaml:"parameters"`
}

// Normalize reshapes a Document into a Classification.
//
// A null class becomes an empty mapping so the class is declared with all
// defaults. Null parameters inside a class are removed so puppet falls back to
// the class default. A class whose value is neither null nor a mapping is
// dropped silently. Every top-level key other than classes and parameters is
// discarded. The document is not modified.
func Normalize(doc Document) (Classification, error) {
	out := Classification{
		Classes:    map[string]map[string]interface{}{},
		Parameters: map[string]interface{}{},
	}

	if raw, ok := doc.Get(KeyClasses); ok && raw != nil {
		classes, ok := asMapping(raw)
		if !ok {
			return Classification{}, domain.Violation("'%s' must be a mapping, got %T", KeyClasses, raw)
		}
		for name, value := range classes {
			if value == nil {
				out.Classes[name] = map[string]interface{}{}
				continue
			}
			params, ok := asMapping(value)
			if !ok {
				continue
			}
			out.Classes[name] = withoutNulls(params)
		}
	}

	if raw, ok := doc.Get(KeyParameters); ok && raw != nil {
		params, ok := asMapping(raw)
		if !ok {
			return Classification{}, domain.Violation("'%s' must be a mapping, got %T", KeyParameters, raw)
		}
		for k, v := range params {
			out.Parameters[k] = v
		}
	}

	return out, nil
}

func withoutNulls(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}
