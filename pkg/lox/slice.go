// Package lox дополняет samber/lo функциями, которые могут вернуть ошибку.
package lox

import "strconv"

// MapErr maps collection and stops at the first error, returning it with the index of the failed item.
func MapErr[T, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	result := make([]R, len(collection))

	for i, item := range collection {
		var err error

		result[i], err = iteratee(item)
		if err != nil {
			return nil, &ItemError{Index: i, Err: err}
		}
	}

	return result, nil
}

type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return "item " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
