package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const dataURIPrefix = "data:"

// ErrNotDataURI is returned when parsing a string that is not a data URI.
var ErrNotDataURI = errors.New("not a data URI")

// IsDataURI reports whether s is a data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, dataURIPrefix)
}

// ParseDataURI decodes a base64 data URI into its MIME type and payload.
// Format: data:<mime>;base64,<payload>
func ParseDataURI(s string) (mimeType string, data []byte, err error) {
	if !IsDataURI(s) {
		return "", nil, ErrNotDataURI
	}

	meta, payload, found := strings.Cut(s[len(dataURIPrefix):], ",")
	if !found {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrNotDataURI)
	}

	mimeType = meta
	encoding := ""
	if idx := strings.IndexByte(meta, ';'); idx >= 0 {
		mimeType = meta[:idx]
		encoding = meta[idx+1:]
	}

	if encoding != "base64" {
		return "", nil, fmt.Errorf("unsupported data URI encoding %q", encoding)
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI payload: %w", err)
	}

	return mimeType, data, nil
}

// EncodeDataURI builds a base64 data URI from a MIME type and payload.
func EncodeDataURI(mimeType string, data []byte) string {
	return dataURIPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
