// Package json wraps bytedance/sonic and falls back to encoding/json on
// architectures sonic does not support (anything but amd64/arm64).
package json

import (
	stdjson "encoding/json"
	"io"
	"runtime"

	"github.com/bytedance/sonic"
)

// Encoder is a JSON encoder interface.
type Encoder interface {
	Encode(v interface{}) error
}

// Decoder is a JSON decoder interface.
type Decoder interface {
	Decode(v interface{}) error
}

var (
	// Marshal encodes v into JSON bytes.
	Marshal func(v interface{}) ([]byte, error)

	// Unmarshal decodes JSON bytes into v.
	Unmarshal func(data []byte, v interface{}) error

	// NewEncoder creates a new JSON encoder for the writer.
	NewEncoder func(w io.Writer) Encoder

	// NewDecoder creates a new JSON decoder for the reader.
	NewDecoder func(r io.Reader) Decoder

	usingSonic bool
)

func init() {
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		api := sonic.ConfigStd
		Marshal = api.Marshal
		Unmarshal = api.Unmarshal
		NewEncoder = func(w io.Writer) Encoder { return api.NewEncoder(w) }
		NewDecoder = func(r io.Reader) Decoder { return api.NewDecoder(r) }
		usingSonic = true
		return
	}

	Marshal = stdjson.Marshal
	Unmarshal = stdjson.Unmarshal
	NewEncoder = func(w io.Writer) Encoder { return stdjson.NewEncoder(w) }
	NewDecoder = func(r io.Reader) Decoder { return stdjson.NewDecoder(r) }
}

// MarshalString encodes v and returns the JSON text.
func MarshalString(v interface{}) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsUsingSonic returns true if sonic is being used for JSON operations.
func IsUsingSonic() bool {
	return usingSonic
}
