package errors

import (
	"math"
	"strings"
	"unicode"
)

// Limits applied to user-supplied identifiers.
const (
	MaxNodeIDLength = 256
	MaxNameLength   = 200
	MaxDimension    = 100_000
)

// ValidateNodeID checks a node identifier. IDs are usually addresses or
// transaction hashes, but any printable string up to MaxNodeIDLength works.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidGraph, "node id too long (max %d characters)", MaxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id %q contains control characters", id)
		}
	}
	return nil
}

// ValidateName checks a human-readable exploration name. Empty is allowed.
func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains control characters")
		}
	}
	return nil
}

// ValidateDimensions checks an explicit viewport size. Zero means "not
// measured yet" and is accepted; the layout substitutes defaults.
func ValidateDimensions(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidViewport, "viewport dimensions must be finite")
		}
		if v < 0 {
			return New(ErrCodeInvalidViewport, "viewport dimensions cannot be negative")
		}
		if v > MaxDimension {
			return New(ErrCodeInvalidViewport, "viewport dimension %.0f exceeds %d", v, MaxDimension)
		}
	}
	return nil
}

// ValidateOutputPath checks a path the CLI is about to write to.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "output path contains a null byte")
	}
	return nil
}
