// Package jsonx routes all JSON encoding through one jsoniter
// configuration so stores, snapshot files and HTTP bodies agree
// byte-for-byte with encoding/json.
package jsonx

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v interface{}) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent encodes v for human-readable files such as snapshots.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v interface{}) error {
	return api.Unmarshal(data, v)
}

func NewDecoder(r io.Reader) *jsoniter.Decoder {
	return api.NewDecoder(r)
}

func NewEncoder(w io.Writer) *jsoniter.Encoder {
	return api.NewEncoder(w)
}
