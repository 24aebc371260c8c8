// Package ids generates the opaque identifiers used as primary keys and
// token components. The nanoid alphabet (A-Za-z0-9_-) is load-bearing:
// issued QR tokens are validated against it.
package ids

import gonanoid "github.com/matoous/go-nanoid/v2"

// New returns a 21-character nanoid. Generation only fails if the OS
// entropy source is broken, in which case nothing else works either.
func New() string {
	id, err := gonanoid.New()
	if err != nil {
		panic(err)
	}
	return id
}

// NewN returns a nanoid of the given length.
func NewN(n int) string {
	id, err := gonanoid.New(n)
	if err != nil {
		panic(err)
	}
	return id
}

// Alphabet returns an id of length n drawn from the given alphabet.
func Alphabet(alphabet string, n int) string {
	id, err := gonanoid.Generate(alphabet, n)
	if err != nil {
		panic(err)
	}
	return id
}
