// Package alias produces short random link identifiers.
package alias

import "math/rand"

// DefaultLength is used when the caller supplies no alias of its own.
const DefaultLength = 8

var chars = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// Generate returns a string of n characters drawn independently and
// uniformly from [a-z0-9]. The source is math/rand; uniqueness is the
// caller's problem, enforced by the store's unique constraint.
func Generate(n int) string {
	if n <= 0 {
		return ""
	}
	str := make([]rune, n)
	for i := 0; i < n; i++ {
		str[i] = chars[rand.Intn(len(chars))]
	}
	return string(str)
}
