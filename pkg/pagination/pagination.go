package pagination

const (
	// DefaultPageSize is used when the caller does not ask for a size.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows a single page may return.
	MaxPageSize = 100
	// DefaultMaxWindow bounds page*page_size so deep pages stay cheap.
	DefaultMaxWindow = 1000
)

// Params holds offset pagination inputs from controllers or services.
// Page is 1-based.
type Params struct {
	Page     int
	PageSize int
}

// Meta describes the returned page.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Normalize enforces the default and maximum limits.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	p.PageSize = NormalizePageSize(p.PageSize)
	return p
}

// NormalizePageSize applies the default and cap to a raw page size.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Offset returns the number of rows to skip. Params must be normalized.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Window is offset+page_size: how many leading rows a page depends on.
func (p Params) Window() int {
	return p.Offset() + p.PageSize
}

// WithinWindow reports whether the page stays inside maxWindow rows.
func (p Params) WithinWindow(maxWindow int) bool {
	if maxWindow <= 0 {
		maxWindow = DefaultMaxWindow
	}
	return p.Window() <= maxWindow
}

// NewMeta builds the response metadata for a normalized request.
func NewMeta(p Params, total int64) Meta {
	pages := 0
	if total > 0 && p.PageSize > 0 {
		pages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return Meta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: pages,
	}
}
