package order

import (
	"strings"

	"github.com/wichananm65/smoothie-order-form/internal/catalog"
)

// DefaultMaxSelections is how many ingredients fit in one smoothie.
const DefaultMaxSelections = 5

// Draft is what the user has put together so far. Nothing about it has been
// checked yet.
type Draft struct {
	CustomerName string
	Selected     []catalog.Ingredient
}

// DraftFromNames builds a Draft from the fruit names posted by a form or API
// client, resolving each against snap. A name posted twice is kept once, at
// its first position. Names the snapshot does not know are kept with an empty
// lookup key so the validator can reject them by name.
func DraftFromNames(customerName string, names []string, snap catalog.Catalog) Draft {
	d := Draft{CustomerName: customerName, Selected: make([]catalog.Ingredient, 0, len(names))}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if ing, ok := snap.Lookup(n); ok {
			d.Selected = append(d.Selected, ing)
			continue
		}
		d.Selected = append(d.Selected, catalog.Ingredient{Name: n})
	}
	return d
}

// ValidatedOrder has passed every validation rule and is ready to be stored.
// Warnings holds non-fatal findings such as a truncated selection.
type ValidatedOrder struct {
	Names        []string
	Ingredients  string
	CustomerName string
	Selected     []catalog.Ingredient
	Warnings     []error
}

// Persisted is the row written to the orders table.
func (o ValidatedOrder) Persisted() PersistedOrder {
	return PersistedOrder{Ingredients: o.Ingredients, NameOnOrder: o.CustomerName}
}

// WarningMessages renders Warnings for display.
func (o ValidatedOrder) WarningMessages() []string {
	if len(o.Warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(o.Warnings))
	for _, w := range o.Warnings {
		out = append(out, Message(w))
	}
	return out
}

// PersistedOrder is one row of the orders table. It is written once and
// never read back by this service.
type PersistedOrder struct {
	Ingredients string `json:"ingredients"`
	NameOnOrder string `json:"nameOnOrder"`
}

func joinNames(names []string) string {
	return strings.Join(names, " ")
}
