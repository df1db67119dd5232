// SPDX-License-Identifier: Apache-2.0

package asbuilt

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedXML reports input that is not well-formed XML.
	ErrMalformedXML = errors.New("malformed XML")
	// ErrMalformedDocument reports well-formed input missing the AsBuilt structure.
	ErrMalformedDocument = errors.New("malformed AsBuilt document")
	// ErrFileTypeRejected reports a file no registered decoder accepts.
	ErrFileTypeRejected = errors.New("file type rejected")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedDocument, fmt.Sprintf(format, args...))
}

// UserMessage returns the single message shown to a user for a failed load.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFileTypeRejected):
		return "Please select a valid AsBuilt file (.ab)"
	case errors.Is(err, ErrMalformedXML):
		return "Error parsing AsBuilt file. Please check the file format."
	case errors.Is(err, ErrMalformedDocument):
		return fmt.Sprintf("The file is valid XML but not an AsBuilt document: %v", err)
	default:
		return fmt.Sprintf("Error reading file: %v", err)
	}
}
