package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/multierr"
)

// Length bounds for the editable text fields, counted in characters of the
// trimmed value.
const (
	TitleMinLength       = 5
	TitleMaxLength       = 100
	DescriptionMinLength = 10
	DescriptionMaxLength = 500
)

// Rule names the constraint a field failed.
type Rule string

const (
	RuleRequired Rule = "required"
	RuleTooShort Rule = "too_short"
	RuleTooLong  Rule = "too_long"
	RuleInvalid  Rule = "invalid"
)

// ValidationError is a recoverable, field-level input error.
type ValidationError struct {
	Field string // wire name: title, description, status, priority, id
	Rule  Rule
	Limit int // bound that was crossed, 0 for required/invalid
}

func (e *ValidationError) Error() string {
	label := fieldLabel(e.Field)
	switch e.Rule {
	case RuleRequired:
		return label + " is required"
	case RuleTooShort:
		return fmt.Sprintf("%s must be at least %d characters", label, e.Limit)
	case RuleTooLong:
		return fmt.Sprintf("%s must be less than %d characters", label, e.Limit)
	case RuleInvalid:
		switch e.Field {
		case "status":
			return label + " must be one of open, in-progress, resolved"
		case "priority":
			return label + " must be one of low, medium, high"
		}
		return label + " is invalid"
	default:
		return label + " is invalid"
	}
}

func fieldLabel(field string) string {
	if field == "id" {
		return "ID"
	}
	if field == "" {
		return "Field"
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

// ValidateTitle returns nil for a valid title.
func ValidateTitle(title string) error {
	return validateText("title", title, TitleMinLength, TitleMaxLength)
}

// ValidateDescription returns nil for a valid description.
func ValidateDescription(description string) error {
	return validateText("description", description, DescriptionMinLength, DescriptionMaxLength)
}

func validateText(field, value string, minLen, maxLen int) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return &ValidationError{Field: field, Rule: RuleRequired}
	}
	n := utf8.RuneCountInString(trimmed)
	if n < minLen {
		return &ValidationError{Field: field, Rule: RuleTooShort, Limit: minLen}
	}
	if n > maxLen {
		return &ValidationError{Field: field, Rule: RuleTooLong, Limit: maxLen}
	}
	return nil
}

// ValidateCreate checks every field of a create request and returns all
// failures combined, or nil.
func ValidateCreate(in CreateInput) error {
	var err error
	err = multierr.Append(err, ValidateTitle(in.Title))
	err = multierr.Append(err, ValidateDescription(in.Description))
	if !in.Priority.Valid() {
		err = multierr.Append(err, &ValidationError{Field: "priority", Rule: RuleInvalid})
	}
	return err
}

// ValidateUpdate checks only the fields present in the update.
func ValidateUpdate(in UpdateInput) error {
	var err error
	if strings.TrimSpace(in.ID) == "" {
		err = multierr.Append(err, &ValidationError{Field: "id", Rule: RuleRequired})
	}
	if in.Title != nil {
		err = multierr.Append(err, ValidateTitle(*in.Title))
	}
	if in.Description != nil {
		err = multierr.Append(err, ValidateDescription(*in.Description))
	}
	if in.Status != nil && !in.Status.Valid() {
		err = multierr.Append(err, &ValidationError{Field: "status", Rule: RuleInvalid})
	}
	if in.Priority != nil && !in.Priority.Valid() {
		err = multierr.Append(err, &ValidationError{Field: "priority", Rule: RuleInvalid})
	}
	return err
}

// IsValidation reports whether err carries at least one ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// FieldErrors flattens a (possibly combined) validation error into
// field -> message. The first failure per field wins.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	out := make(map[string]string)
	for _, e := range multierr.Errors(err) {
		var ve *ValidationError
		if !errors.As(e, &ve) {
			continue
		}
		if _, seen := out[ve.Field]; !seen {
			out[ve.Field] = ve.Error()
		}
	}
	return out
}
