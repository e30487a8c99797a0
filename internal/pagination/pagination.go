// Package pagination splits result lists into fixed-size pages.
package pagination

import (
	"sync"

	"github.com/iliyamo/hospitality-booking/internal/model"
)

// PageSize is the number of units shown per results page.
const PageSize = 3

// Slice returns items[(page-1)*size : page*size], clamped to the list.
// A page outside the list yields an empty slice.
func Slice[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	if page-1 >= TotalPages(len(items), size) {
		return []T{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is ceil(n / size).
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return pages
}

// Pager holds a result list and the page the guest is looking at.
// Replacing the list resets the page to 1.
type Pager struct {
	mu    sync.RWMutex
	items []model.BookableUnit
	page  int
	size  int
}

// NewPager returns an empty pager using size units per page; size < 1
// falls back to PageSize.
func NewPager(size int) *Pager {
	if size < 1 {
		size = PageSize
	}
	return &Pager{page: 1, size: size}
}

// SetItems replaces the backing list and moves back to page 1.
func (p *Pager) SetItems(items []model.BookableUnit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = items
	p.page = 1
}

// SetPage moves to page n, clamped to [1, TotalPages].
func (p *Pager) SetPage(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	last := TotalPages(len(p.items), p.size)
	if n > last {
		n = last
	}
	if n < 1 {
		n = 1
	}
	p.page = n
	return n
}

// Page returns the current page.
func (p *Pager) Page() model.SearchResultPage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return model.SearchResultPage{
		Items:      Slice(p.items, p.page, p.size),
		PageNumber: p.page,
		PageSize:   p.size,
		TotalItems: len(p.items),
		TotalPages: TotalPages(len(p.items), p.size),
	}
}

// Find returns the unit with the given id from the full list.
func (p *Pager) Find(id string) (model.BookableUnit, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, u := range p.items {
		if u.ID == id {
			return u, true
		}
	}
	return model.BookableUnit{}, false
}
