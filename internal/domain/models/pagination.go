package models

// PaginationQuery is bound from ?page=&page_size= on list endpoints
type PaginationQuery struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize clamps the query to page >= 1 and 1 <= page_size <= 100.
func (q PaginationQuery) Normalize() PaginationQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 10
	}
	return q
}

// Offset returns the row offset of the page.
func (q PaginationQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// PageResult wraps one page of a list endpoint
type PageResult struct {
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
	Data       interface{} `json:"data"`
}

// NewPageResult builds a PageResult for q.
func NewPageResult(data interface{}, total int64, q PaginationQuery) PageResult {
	return PageResult{
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (total + int64(q.PageSize) - 1) / int64(q.PageSize),
		Data:       data,
	}
}
