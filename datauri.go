package lumina

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataScheme = "data:"

// PNGMIMEType is the MIME type of generated images.
const PNGMIMEType = "image/png"

// IsDataURI reports whether s is an embedded data URI rather than a remote URL.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, dataScheme)
}

// DataURIPayload returns everything after the first comma of a data URI.
// For base64 data URIs this is the raw base64 payload.
func DataURIPayload(uri string) string {
	_, payload, found := strings.Cut(uri, ",")
	if !found {
		return ""
	}
	return payload
}

// PNGDataURI wraps raw image bytes into a base64 PNG data URI.
func PNGDataURI(data []byte) string {
	return "data:" + PNGMIMEType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI parses a base64 data URI and returns its MIME type and bytes.
func DecodeDataURI(uri string) (mimeType string, data []byte, err error) {
	if !IsDataURI(uri) {
		return "", nil, &ImageError{Op: "decode", URL: "data-uri", Err: ErrInvalidDataURI}
	}
	header, payload, found := strings.Cut(strings.TrimPrefix(uri, dataScheme), ",")
	if !found || !strings.HasSuffix(header, ";base64") {
		return "", nil, &ImageError{Op: "decode", URL: "data-uri", Err: ErrInvalidDataURI}
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, &ImageError{Op: "decode", URL: "data-uri", Err: fmt.Errorf("%w: %v", ErrInvalidDataURI, err)}
	}
	mimeType = strings.TrimSuffix(header, ";base64")
	if mimeType == "" {
		mimeType = "text/plain"
	}
	return mimeType, data, nil
}
