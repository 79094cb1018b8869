// Package catalog holds the in-memory product collection and the pure
// filter/sort/paginate pipeline that derives a display page from it.
package catalog

// Category is the product grouping referenced by the remote collection service.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Product is a single catalog record as served by the remote collection service.
// Category, Images and Rating are optional; the rendering fallbacks for absent
// values live in DisplayImage and CategoryName.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Images      []string  `json:"images"`
	Rating      *float64  `json:"rating,omitempty"`
}

// DisplayImage resolves the image to show for the product:
// first image of the product, else the category image, else the placeholder.
func (p Product) DisplayImage(placeholder string) string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	if p.Category != nil && p.Category.Image != "" {
		return p.Category.Image
	}
	return placeholder
}

// CategoryName returns the category name or an empty string when the
// product has no category.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}
