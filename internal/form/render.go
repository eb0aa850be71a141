package form

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.html
var templatesFS embed.FS

const pageTemplate = "templates/order_form.html"

// Page renders the order form. Output is autoescaped, so fruit names and
// the typed name are always inserted as text.
type Page struct {
	tpl *pongo2.Template
}

func NewPage() (*Page, error) {
	set := pongo2.NewSet("form", pongo2.NewFSLoader(templatesFS))
	tpl, err := set.FromFile(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("form: load template %q: %w", pageTemplate, err)
	}
	return &Page{tpl: tpl}, nil
}

func (p *Page) Render(view View) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.tpl.ExecuteWriter(pongo2.Context{"view": view}, &buf); err != nil {
		return nil, fmt.Errorf("form: execute template: %w", err)
	}
	return buf.Bytes(), nil
}
