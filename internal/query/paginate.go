package query

// PageMeta is the pagination metadata returned with every list response.
type PageMeta struct {
	Page     int  `json:"page"`
	Limit    int  `json:"limit"`
	Total    int  `json:"total"`
	Pages    int  `json:"pages"`
	HasNext  bool `json:"hasNext"`
	HasPrev  bool `json:"hasPrev"`
	NextPage *int `json:"nextPage"`
	PrevPage *int `json:"prevPage"`
}

// NewPageMeta computes metadata for total items. pages is 0 when total is 0.
func NewPageMeta(page, limit, total int) PageMeta {
	page = max(page, 1)
	limit = max(limit, 1)
	m := PageMeta{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: (total + limit - 1) / limit,
	}
	m.HasNext = page < m.Pages
	m.HasPrev = page > 1 && total > 0
	if m.HasNext {
		next := page + 1
		m.NextPage = &next
	}
	if m.HasPrev {
		prev := page - 1
		m.PrevPage = &prev
	}
	return m
}

// Paginate slices records to [offset, offset+limit) and describes the page.
func Paginate(records []Record, p Pagination) ([]Record, PageMeta) {
	meta := NewPageMeta(p.Page, p.Limit, len(records))
	start := min(max(p.Offset, 0), len(records))
	end := min(start+meta.Limit, len(records))
	page := make([]Record, end-start)
	copy(page, records[start:end])
	return page, meta
}
