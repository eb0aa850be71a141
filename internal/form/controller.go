package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wichananm65/smoothie-order-form/internal/catalog"
	"github.com/wichananm65/smoothie-order-form/internal/logger"
	"github.com/wichananm65/smoothie-order-form/internal/nutrition"
	"github.com/wichananm65/smoothie-order-form/internal/order"
)

const (
	msgCatalogDown  = "We couldn't load the fruit list right now. Please try again shortly."
	msgOrderFailed  = "An error occurred while placing your order. Please check the logs for more details."
	msgSessionStale = "Your form session expired. The form has been reloaded, please try again."
)

type CatalogReader interface {
	Snapshot(ctx context.Context) (catalog.Catalog, error)
}

type NutritionLookup interface {
	FetchAll(ctx context.Context, items []catalog.Ingredient) []nutrition.Panel
}

type OrderSubmitter interface {
	Submit(ctx context.Context, o order.ValidatedOrder) error
}

// Input is what one form post carries.
type Input struct {
	NameOnOrder string
	Ingredients []string
}

// Controller turns form interactions into views. None of its methods return
// an error: every collaborator failure ends up as a Notice.
type Controller struct {
	catalog   CatalogReader
	nutrition NutritionLookup
	orders    OrderSubmitter
	validator *order.Validator
	log       *zap.Logger
}

func NewController(c CatalogReader, n NutritionLookup, o OrderSubmitter, v *order.Validator, log *zap.Logger) *Controller {
	if v == nil {
		v = order.NewValidator(order.DefaultMaxSelections)
	}
	return &Controller{catalog: c, nutrition: n, orders: o, validator: v, log: logger.Component(log, "form")}
}

// Load renders the empty form.
func (ctl *Controller) Load(ctx context.Context) View {
	view, _, _ := ctl.base(ctx, Input{})
	return view
}

// Preview re-renders after the selection or name changed. It shows
// nutrition panels for the selected fruits and is not gated by validation.
func (ctl *Controller) Preview(ctx context.Context, in Input) View {
	view, snap, ok := ctl.base(ctx, in)
	if !ok {
		return view
	}

	selected := ctl.known(in.Ingredients, snap)
	if limit := ctl.validator.MaxSelections(); len(selected) > limit {
		view.notice(LevelWarning, order.Message(&order.ValidationError{Rule: order.ErrTooManySelections, Limit: limit, Given: len(selected)}))
		selected = selected[:limit]
	}
	view.Panels = ctl.panels(ctx, selected)
	view.CanSubmit = len(selected) > 0
	return view
}

// Submit validates the input and, only if it is valid, stores exactly one
// order. Nutrition panels are rendered either way.
func (ctl *Controller) Submit(ctx context.Context, in Input) View {
	view, snap, ok := ctl.base(ctx, in)
	if !ok {
		ctl.log.Warn("submit skipped, catalog unavailable")
		return view
	}

	validated, err := ctl.validator.Validate(order.DraftFromNames(in.NameOnOrder, in.Ingredients, snap), snap)
	if err != nil {
		ctl.log.Info("order rejected", zap.Error(err))
		view.notice(LevelWarning, order.Message(err))
		selected := ctl.known(in.Ingredients, snap)
		if limit := ctl.validator.MaxSelections(); len(selected) > limit {
			selected = selected[:limit]
		}
		view.Panels = ctl.panels(ctx, selected)
		view.CanSubmit = len(selected) > 0
		return view
	}
	for _, msg := range validated.WarningMessages() {
		view.notice(LevelWarning, msg)
	}
	view.Panels = ctl.panels(ctx, validated.Selected)
	view.CanSubmit = true

	if err := ctl.orders.Submit(ctx, validated); err != nil {
		view.notice(LevelError, msgOrderFailed)
		return view
	}
	persisted := validated.Persisted()
	view.Order = &persisted
	view.notice(LevelSuccess, fmt.Sprintf("Your Smoothie is ordered, %s!", validated.CustomerName))
	return view
}

// SessionExpired is Load plus a notice that the previous post was dropped.
func (ctl *Controller) SessionExpired(ctx context.Context, in Input) View {
	view, _, _ := ctl.base(ctx, Input{NameOnOrder: in.NameOnOrder})
	view.notice(LevelWarning, msgSessionStale)
	return view
}

// base reads the catalog and fills in the parts shared by every render.
// ok is false when the catalog could not be read.
func (ctl *Controller) base(ctx context.Context, in Input) (View, catalog.Catalog, bool) {
	view := View{
		NameOnOrder:   in.NameOnOrder,
		MaxSelections: ctl.validator.MaxSelections(),
	}
	if name := ctl.validator.SanitizeName(in.NameOnOrder); name != "" {
		view.NameEcho = name
	}

	snap, err := ctl.catalog.Snapshot(ctx)
	if err != nil {
		view.Disabled = true
		view.notice(LevelWarning, msgCatalogDown)
		return view, catalog.Catalog{}, false
	}

	chosen := make(map[string]bool, len(in.Ingredients))
	for _, n := range in.Ingredients {
		chosen[n] = true
	}
	for _, name := range snap.Names() {
		view.Options = append(view.Options, Option{Name: name, Selected: chosen[name]})
		if chosen[name] {
			view.Selected = append(view.Selected, name)
		}
	}
	if snap.Len() == 0 {
		view.notice(LevelInfo, "There are no fruits on the menu yet.")
	}
	return view, snap, true
}

// known resolves names against snap in the order they were posted and drops
// repeats and anything the catalog does not list.
func (ctl *Controller) known(names []string, snap catalog.Catalog) []catalog.Ingredient {
	out := make([]catalog.Ingredient, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		if ing, ok := snap.Lookup(n); ok {
			seen[n] = struct{}{}
			out = append(out, ing)
		}
	}
	return out
}

func (ctl *Controller) panels(ctx context.Context, items []catalog.Ingredient) []Panel {
	if len(items) == 0 || ctl.nutrition == nil {
		return nil
	}
	results := ctl.nutrition.FetchAll(ctx, items)
	out := make([]Panel, 0, len(results))
	for _, r := range results {
		p := Panel{
			Fruit:      r.Ingredient.Name,
			LookupKey:  r.Ingredient.LookupKey,
			StatusCode: r.Result.StatusCode,
		}
		switch {
		case r.Err != nil:
			p.Notice = fmt.Sprintf("Failed to fetch data from Smoothiefroot API for %s. Please try again later.", p.LookupKey)
		case !r.Result.Available && r.Result.StatusCode != 0 && r.Result.StatusCode != http.StatusOK:
			p.Notice = fmt.Sprintf("Failed to fetch data from Smoothiefroot API for %s. Status code: %d", p.LookupKey, r.Result.StatusCode)
		case !r.Result.Available:
			p.Notice = fmt.Sprintf("Failed to fetch data from Smoothiefroot API for %s.", p.LookupKey)
		default:
			p.Available = true
			p.JSON = indent(r.Result.Record)
		}
		out = append(out, p)
	}
	return out
}

func indent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}
