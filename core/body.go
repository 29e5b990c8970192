package core

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// DefaultContentType is assumed for responses without a Content-Type.
const DefaultContentType = "application/json"

// defaultBinaryTypes are the media types whose bodies are base64
// encoded unless configured otherwise.
var defaultBinaryTypes = []string{
	"application/gzip",
	"application/octet-stream",
	"application/pdf",
	"application/protobuf",
	"application/vnd.ms-fontobject",
	"application/x-7z-compressed",
	"application/x-bzip2",
	"application/x-gzip",
	"application/x-protobuf",
	"application/x-tar",
	"application/zip",
	"audio/mpeg",
	"audio/ogg",
	"audio/wav",
	"font/otf",
	"font/ttf",
	"font/woff",
	"font/woff2",
	"image/bmp",
	"image/gif",
	"image/jpeg",
	"image/png",
	"image/tiff",
	"image/vnd.microsoft.icon",
	"image/webp",
	"image/x-icon",
	"video/mp4",
	"video/mpeg",
	"video/webm",
}

// BinaryTypes is a set of media types whose bodies travel base64
// encoded. It is built once and only read afterwards.
type BinaryTypes struct {
	types map[string]struct{}
}

// NewBinaryTypes returns the default binary media types extended by
// the given additional types.
func NewBinaryTypes(additional ...string) *BinaryTypes {
	b := &BinaryTypes{types: make(map[string]struct{}, len(defaultBinaryTypes)+len(additional))}

	for _, t := range defaultBinaryTypes {
		b.types[t] = struct{}{}
	}

	for _, t := range additional {
		if t = strings.TrimSpace(t); t != "" {
			b.types[t] = struct{}{}
		}
	}

	return b
}

// IsBinary reports whether the media type of contentType, ignoring any
// parameters, is one of the binary types.
func (b *BinaryTypes) IsBinary(contentType string) bool {
	if b == nil {
		return false
	}

	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return false
	}

	_, ok := b.types[mediaType]
	return ok
}

// Len returns the number of registered binary types.
func (b *BinaryTypes) Len() int {
	if b == nil {
		return 0
	}

	return len(b.types)
}

// DecodeBody returns the raw bytes of an envelope body. An empty body
// yields nil. If isBase64 is set, the body is base64 decoded; invalid
// input results in a *DecodingError.
func DecodeBody(body string, isBase64 bool) ([]byte, error) {
	if body == "" {
		return nil, nil
	}

	if !isBase64 {
		return []byte(body), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(body)
	if err == nil {
		return decoded, nil
	}

	// some clients strip the padding
	if raw, rawErr := base64.RawStdEncoding.DecodeString(body); rawErr == nil {
		return raw, nil
	}

	return nil, &DecodingError{Field: "body", Err: err}
}

// EncodedBody is a response body ready to be put into an envelope.
type EncodedBody struct {
	// Body is the text or base64 encoded body.
	Body string

	// IsBase64 indicates whether Body is base64 encoded.
	IsBase64 bool

	// Present is false if the response has no body at all, as opposed
	// to an empty one.
	Present bool
}

// EncodeBody encodes a response body for an envelope. Bodies of binary
// content types, or all bodies if force is set, are base64 encoded.
// Text bodies that are not valid UTF-8 are base64 encoded as well.
func EncodeBody(body []byte, contentType string, binary *BinaryTypes, force bool) EncodedBody {
	if body == nil {
		return EncodedBody{}
	}

	if contentType == "" {
		contentType = DefaultContentType
	}

	if force || binary.IsBinary(contentType) || !utf8.Valid(body) {
		return EncodedBody{
			Body:     base64.StdEncoding.EncodeToString(body),
			IsBase64: true,
			Present:  true,
		}
	}

	return EncodedBody{
		Body:    string(body),
		Present: true,
	}
}
