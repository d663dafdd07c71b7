package embedding

import "errors"

var (
	ErrAPIKeyRequired    = errors.New("API key is required")
	ErrInvalidModel      = errors.New("invalid embedding model")
	ErrEmptyText         = errors.New("text cannot be empty")
	ErrEmbeddingFailed   = errors.New("failed to embed text")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrUnknownText       = errors.New("no static vector registered for text")
)
