package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/nibzard/todo-app/todos.schema.json"

// requiredKeys lists the persisted keys and their JSON kinds for the
// fallback checks.
var requiredKeys = []struct {
	name string
	kind string
}{
	{"todo", "string"},
	{"isdone", "boolean"},
	{"ispriority", "boolean"},
	{"created_at", "string"},
	{"updated_at", "string"},
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
	Tasks      int  // number of array elements seen
}

// SchemaJSON returns the embedded schema document.
func SchemaJSON() []byte {
	return bytes.Clone(schemaJSON)
}

// Validate validates raw task file content.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result
	}
	if items, ok := doc.([]any); ok {
		result.Tasks = len(items)
	}

	if s, err := compiledSchema(); err == nil {
		result.UsedSchema = true
		if err := s.Validate(doc); err != nil {
			result.Valid = false
			appendSchemaErrors(result, err)
		}
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema validation not available (%v), using minimal checks", err))
		validateMinimal(doc, result)
	}

	if result.Valid {
		checkTimestamps(data, result)
	}
	return result
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// validateMinimal performs structural checks without JSON Schema.
func validateMinimal(doc any, result *ValidationResult) {
	items, ok := doc.([]any)
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: errors.New("expected a JSON array")})
		return
	}

	for i, item := range items {
		path := fmt.Sprintf("[%d]", i)
		obj, ok := item.(map[string]any)
		if !ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path, Err: errors.New("expected an object")})
			continue
		}
		for _, key := range requiredKeys {
			v, present := obj[key.name]
			if !present {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{
					Path: path + "." + key.name,
					Err:  errors.New("missing required field"),
				})
				continue
			}
			if jsonKind(v) != key.kind {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{
					Path: path + "." + key.name,
					Err:  fmt.Errorf("expected %s, got %s", key.kind, jsonKind(v)),
				})
			}
		}
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// checkTimestamps warns about timestamp strings that do not parse.
func checkTimestamps(data []byte, result *ValidationResult) {
	tasks, err := Unmarshal(data)
	if err != nil {
		return
	}
	for i, t := range tasks {
		if _, err := ParseTimestamp(t.CreatedAt); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("[%d].created_at: %v", i, err))
		}
		if t.UpdatedAt == "" {
			continue
		}
		if _, err := ParseTimestamp(t.UpdatedAt); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("[%d].updated_at: %v", i, err))
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: pointerPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// pointerPath converts a JSON Pointer such as "/2/isdone" to "[2].isdone".
func pointerPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
