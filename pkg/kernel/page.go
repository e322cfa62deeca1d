package kernel

// Page represents pagination metadata
type Page struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

// Paginated is a page of items with metadata
type Paginated[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"pagination"`
	Empty bool `json:"empty"`
}

func NewPaginated[T any](items []T, page, size, total int) Paginated[T] {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items: items,
		Page:  Page{Number: page, Size: size, Total: total, Pages: pages},
		Empty: len(items) == 0,
	}
}

func (p Paginated[T]) HasNext() bool     { return p.Page.Number < p.Page.Pages }
func (p Paginated[T]) HasPrevious() bool { return p.Page.Number > 1 }

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationOptions holds options for pagination queries
type PaginationOptions struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to >= 1 and the size to [1, MaxPageSize]
func (o PaginationOptions) Normalize() PaginationOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	return o
}

func (o PaginationOptions) Offset() int {
	n := o.Normalize()
	return (n.Page - 1) * n.PageSize
}

// PaginateSlice pages an in-memory slice that is already filtered and ordered
func PaginateSlice[T any](items []T, opts PaginationOptions) Paginated[T] {
	opts = opts.Normalize()
	total := len(items)
	start := min(opts.Offset(), total)
	end := min(start+opts.PageSize, total)
	return NewPaginated(items[start:end], opts.Page, opts.PageSize, total)
}
