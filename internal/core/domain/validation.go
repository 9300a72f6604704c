package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Request limits.
const (
	MaxMessageLength   = 1000
	DefaultSearchLimit = 5
	MaxSearchLimit     = 20
)

// ValidationError lists every field-level problem found in a request.
type ValidationError struct {
	Messages []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Messages, "; ")
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func (e *ValidationError) add(format string, args ...any) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

// result returns nil when nothing was recorded.
func (e *ValidationError) result() *ValidationError {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}

// ChatRequest is a validated chat message.
type ChatRequest struct {
	Message string
}

// ValidateChatRequest checks a decoded chat body.
// The body must be an object with a single non-empty string field
// "message" of at most MaxMessageLength characters.
func ValidateChatRequest(body any) (ChatRequest, *ValidationError) {
	verr := &ValidationError{}
	obj, ok := body.(map[string]any)
	if !ok {
		verr.add("request body must be an object")
		return ChatRequest{}, verr
	}

	rejectUnknown(verr, "", obj, "message")
	msg := requireString(verr, "", obj, "message")
	if msg != "" && utf8.RuneCountInString(msg) > MaxMessageLength {
		verr.add("Message is too long. Maximum %d characters allowed.", MaxMessageLength)
	}

	if verr := verr.result(); verr != nil {
		return ChatRequest{}, verr
	}
	return ChatRequest{Message: msg}, nil
}

// ValidateConditionBatch checks a decoded ingestion body.
// The body must be a non-empty array of objects each carrying non-empty
// "disease" and "symptom" strings and nothing else.
func ValidateConditionBatch(body any) ([]ConditionInput, *ValidationError) {
	verr := &ValidationError{}
	items, ok := body.([]any)
	if !ok {
		verr.add("request body must be an array")
		return nil, verr
	}
	if len(items) == 0 {
		verr.add("request body must contain at least 1 element")
		return nil, verr
	}

	inputs := make([]ConditionInput, 0, len(items))
	for i, item := range items {
		prefix := strconv.Itoa(i) + "."
		obj, ok := item.(map[string]any)
		if !ok {
			verr.add("%s must be an object", strconv.Itoa(i))
			continue
		}
		rejectUnknown(verr, prefix, obj, "disease", "symptom")
		inputs = append(inputs, ConditionInput{
			Label:       requireString(verr, prefix, obj, "disease"),
			Description: requireString(verr, prefix, obj, "symptom"),
		})
	}

	if verr := verr.result(); verr != nil {
		return nil, verr
	}
	return inputs, nil
}

// ValidateSearchQuery checks the query text of a direct search. Only a
// missing or empty q is rejected; the text is embedded as given.
func ValidateSearchQuery(q string) *ValidationError {
	if q == "" {
		return &ValidationError{Messages: []string{`Query parameter "q" is required`}}
	}
	return nil
}

// NormalizeSearchLimit applies the direct search limit rule:
// non-positive means DefaultSearchLimit, anything above MaxSearchLimit is capped.
func NormalizeSearchLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	return min(limit, MaxSearchLimit)
}

// ParseSearchLimit parses a raw limit parameter and normalises it.
// Missing or unparseable values fall back to DefaultSearchLimit.
func ParseSearchLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultSearchLimit
	}
	return NormalizeSearchLimit(n)
}

func requireString(verr *ValidationError, prefix string, obj map[string]any, field string) string {
	v, present := obj[field]
	if !present || v == nil {
		verr.add("%s%s should not be empty", prefix, field)
		verr.add("%s%s must be a string", prefix, field)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		verr.add("%s%s must be a string", prefix, field)
		return ""
	}
	if s == "" {
		verr.add("%s%s should not be empty", prefix, field)
	}
	return s
}

func rejectUnknown(verr *ValidationError, prefix string, obj map[string]any, allowed ...string) {
	var unknown []string
	for key := range obj {
		if !slices.Contains(allowed, key) {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	for _, key := range unknown {
		verr.add("property %s%s should not exist", prefix, key)
	}
}
