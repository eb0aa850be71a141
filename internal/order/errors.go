package order

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName         = errors.New("name on order is empty")
	ErrNoIngredients     = errors.New("no ingredients selected")
	ErrTooManySelections = errors.New("too many ingredients selected")
	ErrUnknownIngredient = errors.New("ingredient is not in the catalog")
	ErrPersistence       = errors.New("order could not be stored")
)

// ValidationError reports which rule a draft broke. Rule is one of the
// sentinel errors above, so errors.Is works against it.
type ValidationError struct {
	Rule       error
	Ingredient string
	Limit      int
	Given      int
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case ErrTooManySelections:
		return fmt.Sprintf("order: %d ingredients selected, keeping the first %d", e.Given, e.Limit)
	case ErrUnknownIngredient:
		return fmt.Sprintf("order: unknown ingredient %q", e.Ingredient)
	}
	return "order: " + e.Rule.Error()
}

func (e *ValidationError) Unwrap() error { return e.Rule }

// Message is the text shown to the person filling in the form.
func (e *ValidationError) Message() string {
	switch e.Rule {
	case ErrEmptyName:
		return "Please enter a name for your Smoothie."
	case ErrNoIngredients:
		return "Please choose at least one ingredient."
	case ErrTooManySelections:
		return fmt.Sprintf("You can only select up to %d options. Only the first %d will be used.", e.Limit, e.Limit)
	case ErrUnknownIngredient:
		return fmt.Sprintf("%s is no longer on the menu. Please choose again.", e.Ingredient)
	}
	return "Your order could not be checked."
}

// Message returns the user-facing text for err. Errors that are not
// validation errors get a generic text; their details belong in the log.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message()
	}
	return "An error occurred while placing your order. Please check the logs for more details."
}

// PersistenceError wraps a failed insert into the orders table.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "order: persist: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
