package service

import (
	"regexp"
	"sort"
	"strings"

	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

const minPasswordLength = 6

// fieldErrors collects per-field validation messages.
type fieldErrors map[string]string

func (f fieldErrors) required(field, value, message string) {
	if value == "" {
		f[field] = message
	}
}

func (f fieldErrors) email(field, value string) {
	if _, missing := f[field]; missing {
		return
	}
	if !emailPattern.MatchString(value) {
		f[field] = "Please provide a valid email"
	}
}

// err returns a ValidationError listing messages in field order, or nil.
func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	details := make(map[string]any, len(fields))
	for _, field := range fields {
		messages = append(messages, f[field])
		details[field] = f[field]
	}
	return apperrors.NewValidationError(strings.Join(messages, ", "), details)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
