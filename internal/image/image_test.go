package image

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		wantMIME string
		wantErr  error
	}{
		{name: "png", input: pngHeader, wantMIME: "image/png"},
		{name: "gif", input: gifHeader, wantMIME: "image/gif"},
		{name: "plain text", input: []byte("hello, not a picture"), wantErr: ErrNotImage},
		{name: "pdf", input: []byte("%PDF-1.7\n"), wantErr: ErrNotImage},
		{name: "empty", input: nil, wantErr: ErrNotImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(bytes.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			prefix := "data:" + tt.wantMIME + ";base64,"
			require.True(t, strings.HasPrefix(got, prefix), got)

			decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, prefix))
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
			assert.NoError(t, Check(got))
		})
	}
}

func TestEncode_SizeLimit(t *testing.T) {
	exact := append(append([]byte{}, pngHeader...), make([]byte, MaxSize-len(pngHeader))...)
	_, err := Encode(bytes.NewReader(exact))
	assert.NoError(t, err, "exactly 5MB is accepted")

	over := append(exact, 0)
	_, err = Encode(bytes.NewReader(over))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestCheck(t *testing.T) {
	png := base64.StdEncoding.EncodeToString(pngHeader)
	text := base64.StdEncoding.EncodeToString([]byte("just some text here"))

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "valid png", url: "data:image/png;base64," + png},
		{name: "declared type is case-insensitive", url: "data:IMAGE/PNG;base64," + png},
		{name: "extra params", url: "data:image/png;name=me.png;base64," + png},
		{name: "file path", url: "/home/me/photo.png", wantErr: ErrMalformed},
		{name: "no comma", url: "data:image/png;base64", wantErr: ErrMalformed},
		{name: "not base64 encoded", url: "data:image/png," + png, wantErr: ErrMalformed},
		{name: "bad payload", url: "data:image/png;base64,!!!", wantErr: ErrMalformed},
		{name: "declared non-image", url: "data:text/plain;base64," + png, wantErr: ErrNotImage},
		{name: "content is not an image", url: "data:image/png;base64," + text, wantErr: ErrNotImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.url)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheck_TooLarge(t *testing.T) {
	big := append(append([]byte{}, pngHeader...), make([]byte, MaxSize)...)
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(big)

	assert.ErrorIs(t, Check(url), ErrTooLarge)
}
