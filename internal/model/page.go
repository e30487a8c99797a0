package model

// SearchResultPage is one page of normalized search results.
type SearchResultPage struct {
	Items      []BookableUnit `json:"items"`
	PageNumber int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalItems int            `json:"total_items"`
	TotalPages int            `json:"total_pages"`
}
