package main

// usageError marks command-line misuse so main can exit with status 2,
// distinguishing it from conversion failures.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}
