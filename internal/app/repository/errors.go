package repository

import "errors"

// ErrStillReferenced is returned when a delete is refused because other rows
// still point at the record.
var ErrStillReferenced = errors.New("record is still referenced")

func likePattern(search string) string {
	return "%" + search + "%"
}
