// Package rest provides the HTTP surface of the catalog console: the list
// view with its controls, the detail and edit views, create, export and
// reload actions.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/schema"
	"github.com/hdnguyen/catalog-console/internal/catalog"
	"github.com/hdnguyen/catalog-console/internal/session"
	"github.com/hdnguyen/catalog-console/pkg/web"
)

type Handler struct {
	session  *session.Session
	renderer *Renderer
	decoder  *schema.Decoder
	logger   *slog.Logger
}

// NewHandler creates the HTTP handler bound to the given session.
func NewHandler(sess *session.Session, logger *slog.Logger) (*Handler, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to build renderer: %w", err)
	}
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &Handler{
		session:  sess,
		renderer: renderer,
		decoder:  decoder,
		logger:   logger.With("component", "rest"),
	}, nil
}

// RegisterRoutes registers the HTTP routes of the console.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/", h.List)
	r.Post("/reload", h.Reload)
	r.Get("/export.csv", h.Export)

	r.Route("/products", func(r chi.Router) {
		r.Get("/new", h.CreateForm)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Detail)
			r.Get("/edit", h.EditForm)
			r.Post("/", h.Update)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// listControls are the view controls accepted as query parameters on the
// list page. Pointer fields distinguish "absent" from "set to zero value";
// absent controls leave the session state untouched.
type listControls struct {
	Search *string `schema:"q"`
	Sort   *string `schema:"sort"`
	Dir    *string `schema:"dir"`
	Size   *int    `schema:"size"`
	Page   *int    `schema:"page"`
	View   *string `schema:"view"`
}

// List applies any view controls present in the query string to the session
// and renders both presentation surfaces from one display page.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)

	var controls listControls
	if err := h.decoder.Decode(&controls, r.URL.Query()); err != nil {
		mLogger.DebugContext(r.Context(), "Ignoring malformed view controls", "error", err)
	}

	// Page is applied last: every other control resets it, an explicit
	// page parameter wins only for plain navigation.
	if controls.Search != nil {
		h.session.SetSearch(*controls.Search)
	}
	if controls.Size != nil {
		h.session.SetPageSize(*controls.Size)
	}
	if controls.Sort != nil {
		dir := catalog.Asc
		if controls.Dir != nil {
			dir = catalog.SortDir(*controls.Dir)
		}
		h.session.SetSort(catalog.SortKey(*controls.Sort), dir)
	}
	if controls.View != nil {
		h.session.SetMode(session.ViewMode(*controls.View))
	}
	if controls.Page != nil {
		h.session.GoToPage(*controls.Page)
	}

	view := h.session.View()
	if err := h.renderer.List(w, buildListModel(view)); err != nil {
		mLogger.ErrorContext(r.Context(), "Error rendering list view", "error", err)
	}
}

// Detail renders the product detail view. An unknown ID redirects back to
// the list with a notice instead of opening a view on a missing record.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	product, err := h.session.Product(id)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
		h.session.SetNotice(session.NoticeWarning, fmt.Sprintf("Product %d not found", id))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	model := DetailModel{
		Product:     *product,
		Image:       product.DisplayImage(h.session.Placeholder()),
		Placeholder: h.session.Placeholder(),
	}
	if err := h.renderer.Detail(w, model); err != nil {
		mLogger.ErrorContext(r.Context(), "Error rendering detail view", "error", err)
	}
}

// CreateForm renders an empty product form.
func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	model := FormModel{
		Title:  "Create product",
		Action: "/products",
		Form:   session.ProductForm{CategoryID: 1},
	}
	if err := h.renderer.Form(w, model); err != nil {
		mLogger.ErrorContext(r.Context(), "Error rendering create form", "error", err)
	}
}

// Create submits the create form. On success the user lands on page 1 of the
// list with a success notice; failures re-render the form with the entered
// values and the reason.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	form, ok := h.parseProductForm(w, r, mLogger)
	if !ok {
		return
	}

	if err := h.session.Create(r.Context(), form); err != nil {
		h.renderFormFailure(w, r, FormModel{
			Title:  "Create product",
			Action: "/products",
			Form:   form,
		}, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditForm renders the edit form prefilled from the local collection.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	product, err := h.session.Product(id)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Product not found for edit", "ID", id)
		h.session.SetNotice(session.NoticeWarning, fmt.Sprintf("Product %d not found", id))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	model := FormModel{
		Title:  "Edit product",
		Action: fmt.Sprintf("/products/%d", id),
		Form:   formFromProduct(product, h.session.Placeholder()),
	}
	if err := h.renderer.Form(w, model); err != nil {
		mLogger.ErrorContext(r.Context(), "Error rendering edit form", "error", err)
	}
}

// Update submits the edit form. On success the user returns to the list on
// the page they were on.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	form, ok := h.parseProductForm(w, r, mLogger)
	if !ok {
		return
	}

	if err := h.session.Update(r.Context(), id, form); err != nil {
		h.renderFormFailure(w, r, FormModel{
			Title:  "Edit product",
			Action: fmt.Sprintf("/products/%d", id),
			Form:   form,
		}, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Export streams the current display page as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page := h.session.CurrentPage()
	if len(page.Items) == 0 {
		h.session.SetNotice(session.NoticeWarning, "No data to export")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data, err := catalog.EncodeCSV(page.Items)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error encoding CSV export", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to export CSV")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=products_page_%d.csv", page.Page))
	_, _ = w.Write(data)
}

// Reload re-fetches the collection from the collection service. Failures
// surface on the list as the load-error banner.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	if err := h.session.Load(r.Context()); err != nil {
		mLogger.ErrorContext(r.Context(), "Error reloading product collection", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// parseProductForm decodes the submitted product form.
func (h *Handler) parseProductForm(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (session.ProductForm, bool) {
	if err := r.ParseForm(); err != nil {
		logger.ErrorContext(r.Context(), "Error parsing form body", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid form body")
		return session.ProductForm{}, false
	}
	var form session.ProductForm
	if err := h.decoder.Decode(&form, r.PostForm); err != nil {
		logger.WarnContext(r.Context(), "Error decoding form values", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid form values")
		return session.ProductForm{}, false
	}
	return form, true
}

// renderFormFailure re-renders a submitted form after a failed mutation.
// Validation failures never reached the network; upstream rejections carry
// the server message when one was provided.
func (h *Handler) renderFormFailure(w http.ResponseWriter, r *http.Request, model FormModel, err error) {
	mLogger := h.loggerWithReqID(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var validationErr *session.ValidationError
	if errors.As(err, &validationErr) {
		model.Errors = validationErr.Fields
		w.WriteHeader(http.StatusBadRequest)
	} else {
		model.Errors = map[string]string{"Server": "rejected the request: " + session.UpstreamMessage(err)}
		w.WriteHeader(http.StatusBadGateway)
	}
	if renderErr := h.renderer.Form(w, model); renderErr != nil {
		mLogger.ErrorContext(r.Context(), "Error rendering form", "error", renderErr)
	}
}

// formFromProduct prefills an edit form from a collection record.
func formFromProduct(p *catalog.Product, placeholder string) session.ProductForm {
	categoryID := int64(1)
	if p.Category != nil {
		categoryID = p.Category.ID
	}
	return session.ProductForm{
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		CategoryID:  categoryID,
		Image:       p.DisplayImage(placeholder),
	}
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
