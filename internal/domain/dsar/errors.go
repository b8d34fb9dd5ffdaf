package dsar

import "errors"

var (
	ErrNotFound            = errors.New("request not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDocumentGeneration  = errors.New("response document generation failed")
	ErrNoCompanyConfigured = errors.New("no company configured")
	ErrValidation          = errors.New("invalid submission")
)
