package domain

import "time"

// Index is the top-level metadata object describing the paginated
// collection. One instance exists per deployment environment. It is
// written on every refresh attempt, even no-op ones, so LastFetchedAt
// and LastAttemptedAt always advance.
type Index struct {
	Count           int       `json:"count"`
	TotalPages      int       `json:"totalPages"`
	PageSize        int       `json:"pageSize"`
	LastModified    time.Time `json:"lastModified"`
	LastFetchedAt   time.Time `json:"lastFetchedAt"`
	LastAttemptedAt time.Time `json:"lastAttemptedAt"`
	Checksum        string    `json:"checksum"`
	ChangeDetected  bool      `json:"changeDetected"`
}

// PageCount returns ceil(count / pageSize).
func PageCount(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// PageSlice returns the half-open bounds of page n (1-based) over a
// collection of count items, clamped to the collection size.
func PageSlice(count, pageSize, n int) (start, end int) {
	if n < 1 || pageSize <= 0 {
		return 0, 0
	}
	start = (n - 1) * pageSize
	if start >= count {
		return 0, 0
	}
	end = start + pageSize
	if end > count {
		end = count
	}
	return start, end
}
