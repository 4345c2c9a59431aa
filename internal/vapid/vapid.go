// Package vapid converts VAPID application-server keys between the URL-safe
// base64 transport form and the raw 65-byte uncompressed EC point the push
// platform expects.
package vapid

import (
	"encoding/base64"
	"strings"
)

// PublicKeyLength is the size of an uncompressed P-256 public key.
const PublicKeyLength = 65

var unURLSafe = strings.NewReplacer("-", "+", "_", "/")

// Decode turns an unpadded URL-safe base64 string into raw bytes. Inputs
// whose length is 1 mod 4 are malformed and fail with the underlying decode
// error.
func Decode(s string) ([]byte, error) {
	padding := strings.Repeat("=", (4-len(s)%4)%4)
	return base64.StdEncoding.DecodeString(unURLSafe.Replace(s) + padding)
}

// Encode is the inverse of Decode: raw bytes to unpadded URL-safe base64.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
