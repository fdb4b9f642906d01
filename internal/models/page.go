package models

// Page is the pagination envelope every listing endpoint of the upstream
// backend returns. The flags are authoritative: firstPage/lastPage come from
// the server, the client never recomputes them from totalPages.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	FirstPage     bool  `json:"firstPage"`
	LastPage      bool  `json:"lastPage"`
}

// Empty reports whether the page carries no rows.
func (p Page[T]) Empty() bool {
	return len(p.Content) == 0
}
