package order

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/wichananm65/smoothie-order-form/internal/catalog"
)

// Validator gates a Draft before it may be submitted. It is stateless apart
// from its configuration and safe for concurrent use.
type Validator struct {
	max    int
	policy *bluemonday.Policy
}

func NewValidator(maxSelections int) *Validator {
	if maxSelections <= 0 {
		maxSelections = DefaultMaxSelections
	}
	return &Validator{max: maxSelections, policy: bluemonday.StrictPolicy()}
}

func (v *Validator) MaxSelections() int { return v.max }

// SanitizeName strips any markup from a typed name and trims it. Entities
// are turned back into text so "Jo & Ann" survives unchanged.
func (v *Validator) SanitizeName(name string) string {
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(name)))
}

// Validate applies the rules in order and stops at the first failure:
// a name is required, at least one ingredient is required, anything past
// the limit is dropped with a warning, and every kept ingredient must be in
// snap. Returned errors are *ValidationError.
func (v *Validator) Validate(d Draft, snap catalog.Catalog) (ValidatedOrder, error) {
	name := v.SanitizeName(d.CustomerName)
	if name == "" {
		return ValidatedOrder{}, &ValidationError{Rule: ErrEmptyName}
	}
	if len(d.Selected) == 0 {
		return ValidatedOrder{}, &ValidationError{Rule: ErrNoIngredients}
	}

	var warnings []error
	selected := d.Selected
	if len(selected) > v.max {
		warnings = append(warnings, &ValidationError{Rule: ErrTooManySelections, Limit: v.max, Given: len(selected)})
		selected = selected[:v.max]
	}

	kept := make([]catalog.Ingredient, 0, len(selected))
	names := make([]string, 0, len(selected))
	for _, s := range selected {
		ing, ok := snap.Lookup(s.Name)
		if !ok {
			return ValidatedOrder{}, &ValidationError{Rule: ErrUnknownIngredient, Ingredient: s.Name}
		}
		kept = append(kept, ing)
		names = append(names, ing.Name)
	}

	return ValidatedOrder{
		Names:        names,
		Ingredients:  joinNames(names),
		CustomerName: name,
		Selected:     kept,
		Warnings:     warnings,
	}, nil
}
