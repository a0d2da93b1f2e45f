package schema

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sync"
)

// Violation describes a single constraint failure at a JSON path.
type Violation struct {
	Path    string `json:"path"`
	Keyword string `json:"keyword"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Result aggregates every violation found in one validation pass.
type Result struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

var patternCache sync.Map // pattern string -> *regexp.Regexp

// Validate checks a value against a schema and returns every violation, not
// just the first. A nil schema accepts everything.
func Validate(value interface{}, s *Schema) Result {
	var violations []Violation
	visit(value, s, "$", &violations)
	return Result{Valid: len(violations) == 0, Violations: violations}
}

func visit(value interface{}, s *Schema, path string, out *[]Violation) {
	if s == nil || s.Type == TypeAny {
		return
	}

	// A type violation suppresses further keyword checks at this path.
	switch s.Type {
	case TypeObject:
		if !visitObject(value, s, path, out) {
			return
		}
	case TypeArray:
		if !visitArray(value, s, path, out) {
			return
		}
	case TypeString:
		if !visitString(value, s, path, out) {
			return
		}
	case TypeNumber, TypeInteger:
		if !visitNumber(value, s, path, out) {
			return
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			addTypeViolation(path, s.Type, value, out)
			return
		}
	}

	if len(s.Enum) > 0 {
		visitEnum(value, s, path, out)
	}
}

func visitObject(value interface{}, s *Schema, path string, out *[]Violation) bool {
	obj, ok := value.(map[string]interface{})
	if !ok {
		addTypeViolation(path, s.Type, value, out)
		return false
	}

	for _, name := range s.Required {
		if _, present := obj[name]; !present {
			*out = append(*out, Violation{
				Path:    path + "." + name,
				Keyword: "required",
				Message: fmt.Sprintf("missing required property %q", name),
			})
		}
	}

	for name, raw := range obj {
		prop, declared := s.Properties[name]
		if declared {
			visit(raw, prop, path+"."+name, out)
			continue
		}
		if s.AdditionalProperties != nil && !*s.AdditionalProperties {
			*out = append(*out, Violation{
				Path:    path + "." + name,
				Keyword: "additionalProperties",
				Message: fmt.Sprintf("unexpected property %q", name),
			})
		}
	}
	return true
}

func visitArray(value interface{}, s *Schema, path string, out *[]Violation) bool {
	arr, ok := value.([]interface{})
	if !ok {
		addTypeViolation(path, s.Type, value, out)
		return false
	}
	for i, item := range arr {
		visit(item, s.Items, fmt.Sprintf("%s[%d]", path, i), out)
	}
	return true
}

func visitString(value interface{}, s *Schema, path string, out *[]Violation) bool {
	str, ok := value.(string)
	if !ok {
		addTypeViolation(path, s.Type, value, out)
		return false
	}
	length := len([]rune(str))
	if s.MinLength != nil && length < *s.MinLength {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "minLength",
			Message: fmt.Sprintf("length %d is below minimum %d", length, *s.MinLength),
		})
	}
	if s.MaxLength != nil && length > *s.MaxLength {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "maxLength",
			Message: fmt.Sprintf("length %d exceeds maximum %d", length, *s.MaxLength),
		})
	}
	if s.Pattern != "" {
		re, err := compilePattern(s.Pattern)
		if err != nil {
			*out = append(*out, Violation{
				Path:    path,
				Keyword: "pattern",
				Message: fmt.Sprintf("invalid pattern %q in schema", s.Pattern),
			})
			return true
		}
		if !re.MatchString(str) {
			*out = append(*out, Violation{
				Path:    path,
				Keyword: "pattern",
				Message: fmt.Sprintf("value does not match pattern %q", s.Pattern),
			})
		}
	}
	return true
}

func visitNumber(value interface{}, s *Schema, path string, out *[]Violation) bool {
	num, ok := toFloat(value)
	if !ok {
		addTypeViolation(path, s.Type, value, out)
		return false
	}
	if s.Type == TypeInteger && num != math.Trunc(num) {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "type",
			Message: fmt.Sprintf("expected integer, got %v", num),
		})
		return false
	}
	if s.Minimum != nil && num < *s.Minimum {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "minimum",
			Message: fmt.Sprintf("%v is below minimum %v", num, *s.Minimum),
		})
	}
	if s.Maximum != nil && num > *s.Maximum {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "maximum",
			Message: fmt.Sprintf("%v exceeds maximum %v", num, *s.Maximum),
		})
	}
	return true
}

func visitEnum(value interface{}, s *Schema, path string, out *[]Violation) {
	for _, allowed := range s.Enum {
		if reflect.DeepEqual(value, allowed) {
			return
		}
		// JSON and YAML decoders disagree on numeric types, so compare
		// numbers numerically.
		if a, ok := toFloat(value); ok {
			if b, ok := toFloat(allowed); ok && a == b {
				return
			}
		}
	}
	*out = append(*out, Violation{
		Path:    path,
		Keyword: "enum",
		Message: fmt.Sprintf("value %v is not one of the allowed values", value),
	})
}

func addTypeViolation(path string, expected Type, value interface{}, out *[]Violation) {
	*out = append(*out, Violation{
		Path:    path,
		Keyword: "type",
		Message: fmt.Sprintf("expected %s, got %s", expected, typeName(value)),
	})
}

func typeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64, int, int32, int64, uint, uint32, uint64:
		return "number"
	default:
		return reflect.TypeOf(value).String()
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}
