package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrNoPendingAction = errors.New("no matching pending confirmation")
)

// ValidationError carries per-field messages for a rejected form. It is
// always recovered locally: the caller surfaces the messages and performs
// no mutation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}
