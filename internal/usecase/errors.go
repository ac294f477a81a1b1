package usecase

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrStoreUnavailable      = errors.New("store unavailable")
	ErrDecodeFailure         = errors.New("decode failure")
	ErrRenderFailure         = errors.New("render failure")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// NotFoundError is returned when neither the requested range nor the full
// range has a snapshot for the owner.
type NotFoundError struct {
	Owner       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no draft data found for %q", e.Owner)
	}
	return fmt.Sprintf("no draft data found for %q (did you mean: %s)", e.Owner, strings.Join(e.Suggestions, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MarkStoreUnavailable tags a store failure so callers can answer with a
// retry-later message.
func MarkStoreUnavailable(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.WithHint(errors.Mark(errors.Wrap(err, msg), ErrStoreUnavailable), "The draft database is unreachable right now. Try again later.")
}
