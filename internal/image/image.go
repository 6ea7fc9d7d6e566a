// Package image turns an uploaded profile picture into the self-contained
// data URL stored on an employee record, and checks data URLs that arrive
// already encoded.
//
// Two rules apply either way: the file is at most MaxSize bytes and its
// content (not its name or declared type) is an image.
package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxSize is the largest accepted image, in bytes (5 MB).
const MaxSize = 5 << 20

var (
	ErrTooLarge  = errors.New("image: size must be less than 5MB")
	ErrNotImage  = errors.New("image: not a valid image file")
	ErrMalformed = errors.New("image: malformed data URL")
)

const dataPrefix = "data:"

// Encode reads an uploaded file and returns it as
// "data:<media type>;base64,<payload>".
func Encode(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("image.Encode: read: %w", err)
	}
	if len(raw) > MaxSize {
		return "", ErrTooLarge
	}

	mtype, err := sniff(raw)
	if err != nil {
		return "", err
	}

	return dataPrefix + mtype + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// Check validates a data URL produced elsewhere (e.g. by a browser's
// FileReader). The declared media type must be image/*, and so must the
// type sniffed from the decoded payload.
func Check(dataURL string) error {
	declared, payload, err := split(dataURL)
	if err != nil {
		return err
	}
	if !isImage(declared) {
		return ErrNotImage
	}

	// Reject on encoded length first so a huge string is never decoded.
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxSize+2 {
		return ErrTooLarge
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(raw) > MaxSize {
		return ErrTooLarge
	}

	_, err = sniff(raw)
	return err
}

// split breaks "data:<type>[;params];base64,<payload>" apart.
func split(dataURL string) (mediaType, payload string, err error) {
	if !strings.HasPrefix(dataURL, dataPrefix) {
		return "", "", ErrMalformed
	}

	meta, payload, ok := strings.Cut(dataURL[len(dataPrefix):], ",")
	if !ok {
		return "", "", ErrMalformed
	}

	params := strings.Split(meta, ";")
	if params[len(params)-1] != "base64" {
		return "", "", ErrMalformed
	}

	return strings.ToLower(strings.TrimSpace(params[0])), payload, nil
}

func sniff(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", ErrNotImage
	}

	mtype := mimetype.Detect(raw)
	if !isImage(mtype.String()) {
		return "", ErrNotImage
	}

	// Drop any parameters; images carry none worth keeping.
	name, _, _ := strings.Cut(mtype.String(), ";")
	return name, nil
}

func isImage(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}
