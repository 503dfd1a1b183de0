package repository

import "math"

// Pagination limits.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 50
)

// Page selects one page of a listing. Number starts at 1.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = DefaultPageNumber
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order sorts by one column.
type Order struct {
	Column    string
	Direction Direction
}

// Query describes a listing. Filter, Sort and Fields use column names that
// the caller has already checked against a whitelist.
type Query struct {
	Page   Page
	Filter map[string]any
	Sort   []Order
	Fields []string
}

// Collection is one page of results.
type Collection[T any] struct {
	Data       []T `json:"data"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	PageCount  int `json:"pageCount"`
	ItemCount  int `json:"itemCount"`
}

func pageCount(items int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int(math.Ceil(float64(items) / float64(size)))
}
