package repositories

import "errors"

// stderrIs and stderrAs forward to the standard errors package, which is
// shadowed by pkg/errors in the repository files.
func stderrIs(err, target error) bool {
	return errors.Is(err, target)
}

func stderrAs(err error, target interface{}) bool {
	return errors.As(err, target)
}
