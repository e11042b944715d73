package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error taxonomy surfaced by AuthService.  Handlers map these onto HTTP
// statuses with errors.Is; the messages are safe to show to clients.
var (
	ErrValidation         = errors.New("invalid request")
	ErrConflict           = errors.New("user with given email or username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInternal           = errors.New("internal server error")
)

// ValidationError lists offending fields keyed by their JSON name, with the
// failed rule as value.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func wrapInternal(err error, op string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
