package nutrition

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/smoothie-order-form/internal/catalog"
)

// Panel pairs an ingredient with its lookup outcome. Err is a *NetworkError
// when the API could not be reached at all.
type Panel struct {
	Ingredient catalog.Ingredient
	Result     Result
	Err        error
}

// FetchAll looks up every ingredient independently, at most c.concurrency at
// a time. A failed lookup never cancels the others. Panels are returned in
// the order of items.
func (c *Client) FetchAll(ctx context.Context, items []catalog.Ingredient) []Panel {
	panels := make([]Panel, len(items))
	if len(items) == 0 {
		return panels
	}

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, item := range items {
		i, item := i, item
		panels[i].Ingredient = item
		g.Go(func() error {
			res, err := c.Fetch(ctx, item.LookupKey)
			panels[i].Result = res
			panels[i].Err = err
			return nil
		})
	}
	_ = g.Wait()
	return panels
}
