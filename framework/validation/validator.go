package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors holds validation messages keyed by field.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Error joins every message, fields in sorted order, so *Errors can be
// returned as an error.
func (e *Errors) Error() string {
	fields := make([]string, 0, len(e.Bag))
	for f := range e.Bag {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var msgs []string
	for _, f := range fields {
		msgs = append(msgs, e.Bag[f]...)
	}
	return strings.Join(msgs, " ")
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"APP_PORT": "required|integer|between:1,65535"}
type Rules map[string]string

// Validator validates a flat map of input values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a new Validator.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	if !v.ran {
		v.validate()
		v.ran = true
	}
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// Err runs validation and returns the error bag, or nil when every rule
// passes.
func (v *Validator) Err() error {
	if v.Fails() {
		return v.errors
	}
	return nil
}

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	for field, ruleStr := range v.rules {
		value := v.data[field]

		for _, rule := range strings.Split(ruleStr, "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")

			if !v.applyRule(field, value, name, param) {
				break // bail on first failure
			}
		}
	}
}

// applyRule returns true if the rule passes.
func (v *Validator) applyRule(field, value, rule, param string) bool {
	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			v.errors.add(field, fmt.Sprintf("The %s field is required.", field))
			return false
		}

	case "integer":
		if _, err := strconv.Atoi(value); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s must be an integer.", field))
			return false
		}

	case "boolean":
		if _, err := strconv.ParseBool(value); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s field must be true or false.", field))
			return false
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			v.errors.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
			return false
		}

	case "between":
		// Numeric range; pair with "integer".
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			break
		}
		min, _ := strconv.Atoi(strings.TrimSpace(lo))
		max, _ := strconv.Atoi(strings.TrimSpace(hi))
		n, _ := strconv.Atoi(value)
		if n < min || n > max {
			v.errors.add(field, fmt.Sprintf("The %s must be between %d and %d.", field, min, max))
			return false
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if strings.TrimSpace(a) == value {
				return true
			}
		}
		v.errors.add(field, fmt.Sprintf("The selected %s is invalid.", field))
		return false
	}

	return true
}
