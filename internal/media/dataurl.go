package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeWebP = "image/webp"
)

var (
	ErrInvalidDataURL = errors.New("media: invalid image data url")
	ErrImageTooLarge  = errors.New("media: image too large")
)

var allowedMimes = map[string]bool{MimePNG: true, MimeJPEG: true, MimeWebP: true}

func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL 解析 data:<mime>;base64,<payload>，maxBytes <= 0 时不限制大小
func DecodeDataURL(s string, maxBytes int) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mime, ok = strings.CutSuffix(meta, ";base64")
	if !ok || !allowedMimes[mime] {
		return "", nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidDataURL, meta)
	}
	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return "", nil, ErrImageTooLarge
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return "", nil, ErrInvalidDataURL
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return "", nil, ErrImageTooLarge
	}
	return mime, data, nil
}
