package service

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	apperrors "github.com/service-bay/ticket-service/pkg/util/errorutil"
	"github.com/service-bay/ticket-service/pkg/util/optional"
)

const (
	msgRequired    = "This field is required."
	msgBlank       = "This field may not be blank."
	msgNull        = "This field may not be null."
	msgInvalidMail = "Enter a valid email address."
	msgEmailTaken  = "A user with this email already exists."

	permissionDenied = "You do not have permission to perform this action."
)

// fieldErrors collects the first problem found per request field.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewFieldErrors(f)
}

func msgMaxLength(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

func msgInvalidChoice(value string) string {
	return fmt.Sprintf("%q is not a valid choice.", value)
}

func msgUnknownPK(value string) string {
	return fmt.Sprintf("Invalid pk %q - object does not exist.", value)
}

// requiredText validates a mandatory, non-blank string bounded by max runes
// (zero for unbounded) and returns it trimmed.
func requiredText(errs fieldErrors, field, value string, max int) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		errs.add(field, msgBlank)
	case max > 0 && utf8.RuneCountInString(value) > max:
		errs.add(field, msgMaxLength(max))
	}
	return value
}

// optionalText normalizes an optional string: blanks become nil.
func optionalText(errs fieldErrors, field string, value *string, max int) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	if max > 0 && utf8.RuneCountInString(trimmed) > max {
		errs.add(field, msgMaxLength(max))
	}
	return &trimmed
}

// patchRequired applies a patch to a non-nullable field.
func patchRequired[T any](errs fieldErrors, field string, v optional.Value[T], apply func(T)) {
	if !v.Set {
		return
	}
	if v.Ptr == nil {
		errs.add(field, msgNull)
		return
	}
	apply(*v.Ptr)
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
