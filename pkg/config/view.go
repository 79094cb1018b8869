package config

import (
	"fmt"
	"slices"
)

// ViewConfig holds the presentation defaults of the catalog view.
type ViewConfig struct {
	PageSizes        []int  `koanf:"pageSizes"`
	DefaultPageSize  int    `koanf:"defaultPageSize"`
	PlaceholderImage string `koanf:"placeholderImage"`
}

func (c *ViewConfig) Validate() error {
	if len(c.PageSizes) == 0 {
		return fmt.Errorf("view page sizes are not configured")
	}
	for _, size := range c.PageSizes {
		if size <= 0 {
			return fmt.Errorf("invalid view page size: %d", size)
		}
	}
	if !slices.Contains(c.PageSizes, c.DefaultPageSize) {
		return fmt.Errorf("default page size %d is not one of the configured page sizes", c.DefaultPageSize)
	}
	if c.PlaceholderImage == "" {
		return fmt.Errorf("placeholder image URL is not configured")
	}
	return nil
}
