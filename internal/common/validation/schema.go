package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	apperrors "recruiter-allocation/internal/common/errors"
	"recruiter-allocation/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins the errors into one line for job error messages.
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Validator checks job variables against the input schemas of the activity
// registry. Schemas are compiled once.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(reg.Activities))}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// Validate checks decoded variables. Task types without a schema pass.
func (v *Validator) Validate(taskType string, variables map[string]interface{}) *ValidationResult {
	schema, ok := v.schemas[taskType]
	if !ok {
		return &ValidationResult{Valid: true}
	}
	if variables == nil {
		variables = map[string]interface{}{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(variables))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "INVALID_DOCUMENT",
		}}}
	}
	return toResult(result)
}

// ValidateJSON decodes raw job variables and validates them.
func (v *Validator) ValidateJSON(taskType, raw string) (map[string]interface{}, *ValidationResult) {
	variables := map[string]interface{}{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &variables); err != nil {
			return nil, &ValidationResult{Errors: []ValidationError{{
				Field:   "(root)",
				Message: fmt.Sprintf("variables are not a JSON object: %v", err),
				Code:    "PARSE_ERROR",
			}}}
		}
	}
	return variables, v.Validate(taskType, variables)
}

// Decode validates raw job variables and unmarshals them into out. Failures
// are INVALID_INPUT standard errors.
func (v *Validator) Decode(taskType, raw string, out interface{}) error {
	_, result := v.ValidateJSON(taskType, raw)
	if !result.Valid {
		return apperrors.NewInvalidInputError(result.Summary())
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return apperrors.NewInvalidInputError(err.Error()).WithCause(err)
	}
	return nil
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out
}
