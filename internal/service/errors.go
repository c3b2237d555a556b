package service

// ValidationError reports a request that cannot be run as given.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
