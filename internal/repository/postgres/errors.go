package postgres

import (
	"errors"

	"github.com/lib/pq"

	"enrolinvitation/internal/domain"
)

// pqInvalidText is raised when a parameter cannot be cast to the column type, e.g. a malformed UUID.
const pqInvalidText = "22P02"

func isInvalidID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqInvalidText
}

// mapInvalidID reports a malformed id as ErrNotFound; no row can match it.
func mapInvalidID(err error) error {
	if isInvalidID(err) {
		return domain.ErrNotFound
	}
	return err
}
