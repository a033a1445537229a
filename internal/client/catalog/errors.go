package catalog

import "errors"

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrNotAList         = errors.New("response is not a list of products")
)
