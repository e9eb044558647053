package ports

import "errors"

var (
	// ErrInvalidAlgorithm is returned when an algorithm selector is not one of
	// greedy, kmp or boyer_moore. It aborts the request before any history is touched.
	ErrInvalidAlgorithm = errors.New("invalid algorithm")

	// ErrVerification is returned when an algorithm's index disagrees with the
	// reference matcher.
	ErrVerification = errors.New("verification failed")
)
