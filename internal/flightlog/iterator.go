package flightlog

import (
	"database/sql"
)

// PositionIterator provides row-at-a-time iteration over a session's
// position samples. Use from a single goroutine and close after use.
type PositionIterator struct {
	rows    *sql.Rows
	current Position
	err     error
}

// Next advances to the next sample. It returns false when the iteration is
// exhausted or an error occurred; check Error afterwards.
func (it *PositionIterator) Next() bool {
	if it.err != nil || !it.rows.Next() {
		return false
	}

	if err := it.rows.Scan(&it.current.Timestamp, &it.current.N, &it.current.E, &it.current.D); err != nil {
		it.err = err
		return false
	}
	return true
}

// Current returns the sample at the iterator's position. Only valid after a
// successful Next.
func (it *PositionIterator) Current() Position {
	return it.current
}

// Error returns the first error encountered during iteration.
func (it *PositionIterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.rows.Err()
}

// Close releases the underlying rows.
func (it *PositionIterator) Close() error {
	return it.rows.Close()
}
