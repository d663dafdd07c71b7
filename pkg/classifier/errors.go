package classifier

import "errors"

var (
	ErrAPIKeyRequired       = errors.New("API key is required")
	ErrClassificationFailed = errors.New("failed to classify text")
	ErrUnexpectedLabel      = errors.New("classifier returned an unexpected label")
)
