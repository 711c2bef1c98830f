// Package navigation tracks the current page of a document view and the
// (possibly still unknown) number of pages.
package navigation

import "strconv"

// UnknownCount is the total page count while counting is in progress.
const UnknownCount = -1

// State holds the page number and the total page count.
//
// The page number never drops below 1 through Prev. Next has no upper
// bound: paging past the end is allowed and the renderer answers with no
// image.
type State struct {
	page  int
	total int

	request func(page int)
}

// New returns a state on page 1 with an unknown page count. The request
// function is called with the new page number by Next and Prev.
func New(request func(page int)) *State {
	return &State{
		page:    1,
		total:   UnknownCount,
		request: request,
	}
}

// Page returns the current page number.
func (s *State) Page() int {
	return s.page
}

// Total returns the total page count, or UnknownCount.
func (s *State) Total() int {
	return s.total
}

// SetTotal records the total page count.
func (s *State) SetTotal(n int) {
	s.total = n
}

// Known reports whether the total page count is available.
func (s *State) Known() bool {
	return s.total >= 0
}

// Next advances one page and requests it.
func (s *State) Next() {
	s.page++
	s.request(s.page)
}

// Prev goes back one page, staying on page 1 at the start, and requests
// the resulting page.
func (s *State) Prev() {
	s.page--
	if s.page < 1 {
		s.page = 1
	}
	s.request(s.page)
}

// SetPage jumps to page n. Unlike Next and Prev this neither validates n
// nor issues a request.
func (s *State) SetPage(n int) {
	s.page = n
}

// Reset returns to page 1 with an unknown page count, without a request.
func (s *State) Reset() {
	s.page = 1
	s.total = UnknownCount
}

// TotalText returns the total page count for display, "?" while unknown.
func (s *State) TotalText() string {
	if !s.Known() {
		return "?"
	}
	return strconv.Itoa(s.total)
}
