package rest

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hdnguyen/catalog-console/internal/catalog"
	"github.com/hdnguyen/catalog-console/internal/session"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// SortColumn is one sortable column header with the link that toggles it:
// the same key flips the direction, a new key starts ascending.
type SortColumn struct {
	Key       catalog.SortKey
	Label     string
	URL       string
	Active    bool
	Indicator string
}

// PageLink is one entry of the pagination strip.
type PageLink struct {
	Number int
	URL    string
	Active bool
}

// SizeOption is one entry of the page-size selector.
type SizeOption struct {
	Size   int
	URL    string
	Active bool
}

// ListModel is everything the list page template needs. Card and table
// surfaces both render from View.Page — the single display page per cycle.
type ListModel struct {
	View        session.View
	SortColumns []SortColumn
	PageLinks   []PageLink
	SizeOptions []SizeOption
	ToggleURL   string
	ToggleLabel string
	ExportURL   string
}

// DetailModel backs the product detail page.
type DetailModel struct {
	Product     catalog.Product
	Image       string
	Placeholder string
}

// FormModel backs the create and edit forms.
type FormModel struct {
	Title  string
	Action string
	Form   session.ProductForm
	Errors map[string]string
}

// Renderer executes the embedded HTML templates. Rendering is a pure
// projection of its input model; every page is fully rebuilt per request.
type Renderer struct {
	list   *template.Template
	detail *template.Template
	form   *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	var (
		r   Renderer
		err error
	)
	if r.list, err = parsePage("list.html.tmpl"); err != nil {
		return nil, err
	}
	if r.detail, err = parsePage("detail.html.tmpl"); err != nil {
		return nil, err
	}
	if r.form, err = parsePage("form.html.tmpl"); err != nil {
		return nil, err
	}
	return &r, nil
}

// parsePage parses one page template together with the shared layout.
func parsePage(page string) (*template.Template, error) {
	funcs := template.FuncMap{
		"price":  formatMoney,
		"rating": formatRating,
	}
	tmpl, err := template.New("layout.html.tmpl").Funcs(funcs).
		ParseFS(templateFS, "templates/layout.html.tmpl", "templates/"+page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
	}
	return tmpl, nil
}

func (r *Renderer) List(w http.ResponseWriter, model ListModel) error {
	return r.execute(w, r.list, model)
}

func (r *Renderer) Detail(w http.ResponseWriter, model DetailModel) error {
	return r.execute(w, r.detail, model)
}

func (r *Renderer) Form(w http.ResponseWriter, model FormModel) error {
	return r.execute(w, r.form, model)
}

func (r *Renderer) execute(w http.ResponseWriter, tmpl *template.Template, model any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.Execute(w, model)
}

// sortableColumns maps column keys to their header labels, in display order.
var sortableColumns = []struct {
	Key   catalog.SortKey
	Label string
}{
	{catalog.SortID, "ID"},
	{catalog.SortTitle, "Title"},
	{catalog.SortPrice, "Price"},
	{catalog.SortCategory, "Category"},
}

// buildListModel derives all links of the list page from the view snapshot.
// Every link carries the full view state, so each control is bookmarkable.
func buildListModel(view session.View) ListModel {
	model := ListModel{View: view}

	for _, col := range sortableColumns {
		active := view.Query.Sort == col.Key
		nextDir := catalog.Asc
		indicator := ""
		if active {
			if view.Query.Dir == catalog.Asc {
				nextDir = catalog.Desc
				indicator = "▲"
			} else {
				indicator = "▼"
			}
		}
		model.SortColumns = append(model.SortColumns, SortColumn{
			Key:       col.Key,
			Label:     col.Label,
			URL:       listURL(view, func(v url.Values) { v.Set("sort", string(col.Key)); v.Set("dir", string(nextDir)); v.Del("page") }),
			Active:    active,
			Indicator: indicator,
		})
	}

	// All pages are listed; the strip is hidden by the template when there
	// is a single page. Fine while collections stay small.
	for n := 1; n <= view.Page.PageCount; n++ {
		page := n
		model.PageLinks = append(model.PageLinks, PageLink{
			Number: page,
			URL:    listURL(view, func(v url.Values) { v.Set("page", strconv.Itoa(page)) }),
			Active: page == view.Page.Page,
		})
	}

	for _, size := range view.PageSizes {
		size := size
		model.SizeOptions = append(model.SizeOptions, SizeOption{
			Size:   size,
			URL:    listURL(view, func(v url.Values) { v.Set("size", strconv.Itoa(size)); v.Del("page") }),
			Active: size == view.Query.PageSize,
		})
	}

	if view.Mode == session.ModeTable {
		model.ToggleLabel = "Cards"
		model.ToggleURL = listURL(view, func(v url.Values) { v.Set("view", string(session.ModeCards)) })
	} else {
		model.ToggleLabel = "Table"
		model.ToggleURL = listURL(view, func(v url.Values) { v.Set("view", string(session.ModeTable)) })
	}
	model.ExportURL = "/export.csv"
	return model
}

// listURL builds a list URL carrying the current view state, then applies
// the given override.
func listURL(view session.View, modify func(v url.Values)) string {
	v := url.Values{}
	if view.Query.Search != "" {
		v.Set("q", view.Query.Search)
	}
	if view.Query.Sort != catalog.SortNone {
		v.Set("sort", string(view.Query.Sort))
		v.Set("dir", string(view.Query.Dir))
	}
	v.Set("size", strconv.Itoa(view.Query.PageSize))
	v.Set("view", string(view.Mode))
	if view.Page.Page > 1 {
		v.Set("page", strconv.Itoa(view.Page.Page))
	}
	modify(v)
	if encoded := v.Encode(); encoded != "" {
		return "/?" + encoded
	}
	return "/"
}

// formatMoney renders a price the way the catalog shows it: "$" plus the
// number with at most two decimals.
func formatMoney(price float64) string {
	formatted := strconv.FormatFloat(price, 'f', 2, 64)
	formatted = strings.TrimRight(strings.TrimRight(formatted, "0"), ".")
	return "$" + formatted
}

// formatRating renders an optional rating, "N/A" when absent.
func formatRating(rating *float64) string {
	if rating == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*rating, 'f', -1, 64)
}
