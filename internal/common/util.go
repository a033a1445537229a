// Package common contains small helpers shared by the storefront client.
package common

// WipeByteArray overwrites b with zeros. Used for password buffers read
// from the terminal once the sign-in attempt is over.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
