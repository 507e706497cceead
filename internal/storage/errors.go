package storage

import (
	"errors"

	"github.com/lib/pq"
)

// ErrConflict reports a uniqueness-constraint violation. Callers decide
// whether it is recoverable: the login step of registration re-prompts on it,
// everywhere else it is fatal to the turn.
var ErrConflict = errors.New("storage: unique constraint violation")

const uniqueViolation = pq.ErrorCode("23505")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
