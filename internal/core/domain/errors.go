package domain

import (
	"errors"
	"fmt"
)

var (
	ErrResumeNotFound = errors.New("resume not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrTemporary      = errors.New("temporary failure")

	ErrUnsupportedFormat    = errors.New("unsupported document format")
	ErrExtractionFailed     = errors.New("text extraction failed")
	ErrNotAResume           = errors.New("this is not a resume")
	ErrSourceUnavailable    = errors.New("evidence source unavailable")
	ErrUserNotFound         = errors.New("user not found on evidence source")
	ErrVerificationNotReady = errors.New("verification not ready")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
