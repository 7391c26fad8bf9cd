package uploader

import (
	"fmt"
	"slices"
)

// Validator enforces per-file type and size constraints before any network
// call. It has no side effects; a rejected file is simply not staged.
type Validator struct {
	AcceptedTypes []string
	MaxSizeBytes  int64
}

// NewValidator creates a Validator from the uploader configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{
		AcceptedTypes: cfg.AcceptedTypes,
		MaxSizeBytes:  cfg.MaxFileSizeBytes(),
	}
}

// Validate succeeds only when the file's declared media type exactly matches
// an accepted type and its size does not exceed the configured ceiling.
func (v *Validator) Validate(file File) error {
	if file.Size <= 0 {
		return fmt.Errorf("%w: %q", ErrEmptyFile, file.Name)
	}
	if !slices.Contains(v.AcceptedTypes, file.ContentType) {
		return fmt.Errorf("%w: %q is %s, accepted: %v",
			ErrUnsupportedType, file.Name, file.ContentType, v.AcceptedTypes)
	}
	if file.Size > v.MaxSizeBytes {
		return fmt.Errorf("%w: %q is %d bytes, limit %d",
			ErrFileTooLarge, file.Name, file.Size, v.MaxSizeBytes)
	}
	return nil
}
