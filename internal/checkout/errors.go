package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrSessionComplete   = errors.New("checkout already completed")
	ErrSessionNotFound   = errors.New("checkout session not found")
	ErrPaymentInProgress = errors.New("payment already in progress")
)

// StepError is returned when an action is attempted from the wrong step.
type StepError struct {
	Current  Step
	Required Step
}

func (e StepError) Error() string {
	return fmt.Sprintf("checkout is at %s, %s required", e.Current, e.Required)
}

// ValidationError maps field names to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}
