package catalog

// Ingredient is one orderable fruit. LookupKey is the identifier the
// nutrition API knows the fruit by, which is not always its display name.
type Ingredient struct {
	Name      string `json:"fruitName"`
	LookupKey string `json:"searchOn"`
}

// Catalog is an immutable snapshot of the orderable ingredients taken at one
// point in time. The zero value is an empty catalog.
type Catalog struct {
	items  []Ingredient
	byName map[string]int
}

// NewCatalog builds a snapshot in the given order. When a name occurs more
// than once the first occurrence wins.
func NewCatalog(items []Ingredient) Catalog {
	c := Catalog{
		items:  make([]Ingredient, 0, len(items)),
		byName: make(map[string]int, len(items)),
	}
	for _, it := range items {
		if _, dup := c.byName[it.Name]; dup {
			continue
		}
		c.byName[it.Name] = len(c.items)
		c.items = append(c.items, it)
	}
	return c
}

// Lookup returns the ingredient with the given display name.
func (c Catalog) Lookup(name string) (Ingredient, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Ingredient{}, false
	}
	return c.items[i], true
}

func (c Catalog) Len() int { return len(c.items) }

// Ingredients returns a copy of the snapshot contents.
func (c Catalog) Ingredients() []Ingredient {
	out := make([]Ingredient, len(c.items))
	copy(out, c.items)
	return out
}

func (c Catalog) Names() []string {
	out := make([]string, len(c.items))
	for i, it := range c.items {
		out[i] = it.Name
	}
	return out
}
