// Package session owns the view state of the catalog console: the active
// query, the view mode, notices, and the gateway that applies confirmed
// create/update results back into the collection.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hdnguyen/catalog-console/internal/catalog"
	"github.com/hdnguyen/catalog-console/internal/upstream"
	"github.com/hdnguyen/catalog-console/pkg/config"
)

// Upstream is the slice of the collection service client the session needs.
type Upstream interface {
	FetchAll(ctx context.Context) ([]catalog.Product, error)
	Create(ctx context.Context, payload upstream.ProductPayload) (*catalog.Product, error)
	Update(ctx context.Context, id int64, payload upstream.ProductPayload) (*catalog.Product, error)
}

// ViewMode selects which of the two presentation surfaces is visible.
// Both are always rendered from the same display page.
type ViewMode string

const (
	ModeCards ViewMode = "cards"
	ModeTable ViewMode = "table"
)

// NoticeLevel classifies a one-shot user-facing banner.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeDanger  NoticeLevel = "danger"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is a banner shown on the next render and then discarded.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// ProductForm carries the user-entered fields of the create and edit forms.
type ProductForm struct {
	Title       string  `schema:"title"       validate:"required"`
	Price       float64 `schema:"price"       validate:"required,gt=0"`
	Description string  `schema:"description"`
	CategoryID  int64   `schema:"categoryId"`
	Image       string  `schema:"image"`
}

// ValidationError reports client-side form validation failures. No network
// call is issued when validation fails.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		messages = append(messages, field+" "+msg)
	}
	slices.Sort(messages)
	return strings.Join(messages, "; ")
}

// View is the immutable snapshot handed to the renderers: the display page,
// the query it was derived from, and everything around it.
type View struct {
	Page        catalog.Page
	Query       catalog.Query
	Mode        ViewMode
	Notice      *Notice
	PageSizes   []int
	Placeholder string
	Summary     string
	Loading     bool
	Loaded      bool
	LoadError   string
}

// Session is the stateful engine behind the console UI. All view state lives
// here; handlers only translate HTTP requests into session calls and render
// the resulting View.
type Session struct {
	store    *catalog.Store
	upstream Upstream
	validate *validator.Validate
	logger   *slog.Logger
	cfg      config.ViewConfig

	// mutateMu serializes create/update submissions, so confirmed results
	// apply to the store in submission order.
	mutateMu sync.Mutex

	mu      sync.Mutex
	query   catalog.Query
	mode    ViewMode
	notice  *Notice
	loading bool
	loaded  bool
	loadErr string
}

// NewSession creates a session with default view state: no search, no sort,
// the configured default page size, page 1, card view.
func NewSession(store *catalog.Store, up Upstream, cfg config.ViewConfig, logger *slog.Logger) *Session {
	return &Session{
		store:    store,
		upstream: up,
		validate: validator.New(),
		logger:   logger.With("component", "session"),
		cfg:      cfg,
		query: catalog.Query{
			PageSize: cfg.DefaultPageSize,
			Page:     1,
		},
		mode: ModeCards,
	}
}

// Load fetches the full collection from the collection service and replaces
// the store contents. The search text is kept; the page resets to 1.
// On failure nothing is rendered but the error banner: no partial data.
func (s *Session) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	products, err := s.upstream.FetchAll(ctx)
	if err != nil {
		s.mu.Lock()
		s.loaded = false
		s.loadErr = err.Error()
		s.mu.Unlock()
		return fmt.Errorf("failed to load product collection: %w", err)
	}

	s.store.Load(products)
	s.mu.Lock()
	s.loaded = true
	s.loadErr = ""
	s.query.Page = 1
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "Product collection loaded", "count", len(products))
	return nil
}

// SetSearch replaces the search text. A changed search resets to page 1.
func (s *Session) SetSearch(search string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	search = strings.TrimSpace(search)
	if search == s.query.Search {
		return
	}
	s.query.Search = search
	s.query.Page = 1
}

// SetSort sets the active sort column and direction and resets to page 1.
// Unknown keys clear the sort.
func (s *Session) SetSort(key catalog.SortKey, dir catalog.SortDir) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch key {
	case catalog.SortID, catalog.SortTitle, catalog.SortPrice, catalog.SortCategory:
		s.query.Sort = key
		if dir != catalog.Desc {
			dir = catalog.Asc
		}
		s.query.Dir = dir
	default:
		s.query.Sort = catalog.SortNone
		s.query.Dir = ""
	}
	s.query.Page = 1
}

// SetPageSize switches to one of the configured page sizes and resets to
// page 1. Sizes outside the configured set are ignored.
func (s *Session) SetPageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.cfg.PageSizes, size) || size == s.query.PageSize {
		return
	}
	s.query.PageSize = size
	s.query.Page = 1
}

// GoToPage moves to the given page, clamped into the valid range for the
// current filtered set.
func (s *Session) GoToPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Page = page
	s.query = s.query.Clamp(s.store.Snapshot())
}

// SetMode switches between the card and table surfaces.
func (s *Session) SetMode(mode ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == ModeCards || mode == ModeTable {
		s.mode = mode
	}
}

// Product looks up a product in the collection by ID. The UI calls this
// before opening a detail or edit view, so it never edits a missing record.
func (s *Session) Product(id int64) (*catalog.Product, error) {
	return s.store.FindByID(id)
}

// Create validates the form, submits it to the collection service and, on
// success, prepends the confirmed product and resets to page 1. On any
// failure the collection is left unchanged.
func (s *Session) Create(ctx context.Context, form ProductForm) error {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	payload, err := s.buildPayload(&form)
	if err != nil {
		return err
	}

	s.setLoading(true)
	created, err := s.upstream.Create(ctx, payload)
	s.setLoading(false)
	if err != nil {
		s.logger.ErrorContext(ctx, "Product creation rejected", "error", err)
		return err
	}

	s.store.ApplyCreated(*created)
	s.mu.Lock()
	s.query.Page = 1
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "Product created", "id", created.ID, "title", created.Title)
	s.SetNotice(NoticeSuccess, "Product created")
	return nil
}

// Update validates the form, submits it to the collection service and, on
// success, replaces the product in place without relocating the user to
// another page. A confirmed update for an ID absent from the collection is a
// logged consistency warning, not a failure.
func (s *Session) Update(ctx context.Context, id int64, form ProductForm) error {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	payload, err := s.buildPayload(&form)
	if err != nil {
		return err
	}

	s.setLoading(true)
	updated, err := s.upstream.Update(ctx, id, payload)
	s.setLoading(false)
	if err != nil {
		s.logger.ErrorContext(ctx, "Product update rejected", "id", id, "error", err)
		return err
	}

	if err := s.store.ApplyUpdated(*updated); errors.Is(err, catalog.ErrProductNotFound) {
		s.logger.WarnContext(ctx, "Update response referenced a product absent from the collection", "id", updated.ID)
	}
	s.logger.InfoContext(ctx, "Product updated", "id", updated.ID, "title", updated.Title)
	s.SetNotice(NoticeSuccess, "Product updated")
	return nil
}

// buildPayload trims and validates the form, converting it into the request
// payload. Validation failures block the network call entirely.
func (s *Session) buildPayload(form *ProductForm) (upstream.ProductPayload, error) {
	form.Title = strings.TrimSpace(form.Title)
	if err := s.validate.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]string)
			for _, fieldErr := range validationErrors {
				fields[fieldErr.Field()] = fieldMessage(fieldErr)
			}
			return upstream.ProductPayload{}, &ValidationError{Fields: fields}
		}
		return upstream.ProductPayload{}, err
	}

	categoryID := form.CategoryID
	if categoryID == 0 {
		categoryID = 1
	}
	images := []string{}
	if img := strings.TrimSpace(form.Image); img != "" {
		images = []string{img}
	}
	return upstream.ProductPayload{
		Title:       form.Title,
		Price:       form.Price,
		Description: strings.TrimSpace(form.Description),
		CategoryID:  categoryID,
		Images:      images,
	}, nil
}

// CurrentPage runs the query pipeline over the current collection and
// returns the display page. The clamped page index is written back so the
// view state never points past the end of a shrunken filtered set.
func (s *Session) CurrentPage() catalog.Page {
	snapshot := s.store.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.query.Run(snapshot)
	s.query.Page = page.Page
	return page
}

// View produces the render snapshot for one request and consumes the pending
// notice. Both presentation surfaces must be rendered from this one value.
func (s *Session) View() View {
	page := s.CurrentPage()

	s.mu.Lock()
	defer s.mu.Unlock()
	view := View{
		Page:        page,
		Query:       s.query,
		Mode:        s.mode,
		Notice:      s.notice,
		PageSizes:   s.cfg.PageSizes,
		Placeholder: s.cfg.PlaceholderImage,
		Summary:     summarize(page),
		Loading:     s.loading,
		Loaded:      s.loaded,
		LoadError:   s.loadErr,
	}
	s.notice = nil
	return view
}

// SetNotice queues a banner for the next render, replacing any pending one.
func (s *Session) SetNotice(level NoticeLevel, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = &Notice{Level: level, Message: message}
}

// Placeholder returns the configured fallback image URL.
func (s *Session) Placeholder() string {
	return s.cfg.PlaceholderImage
}

func (s *Session) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// summarize builds the record-count line for a display page.
func summarize(page catalog.Page) string {
	if len(page.Items) == 0 {
		return "0 products"
	}
	return fmt.Sprintf("Showing %d–%d / %d", page.From, page.To, page.Total)
}

// fieldMessage maps a validation failure to a user-facing message.
func fieldMessage(fieldErr validator.FieldError) string {
	switch {
	case fieldErr.Field() == "Title":
		return "is required"
	case fieldErr.Field() == "Price":
		return "must be a number greater than 0"
	default:
		return "failed on rule: " + fieldErr.Tag()
	}
}

// UpstreamMessage extracts the user-facing part of an upstream failure:
// the server message when present, the raw error otherwise.
func UpstreamMessage(err error) string {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Sprintf("HTTP %d — %s", apiErr.Status, apiErr.Message)
		}
		return fmt.Sprintf("HTTP %d", apiErr.Status)
	}
	return err.Error()
}
