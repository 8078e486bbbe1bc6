package crypto

import (
	"crypto/rand"
	"errors"
	"math"
)

const (
	// URLAlphabet is safe in headers, URLs and log lines
	URLAlphabet string = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

	// RequestIDSize gives 16 * 6 = 96 bits of entropy, plenty for request correlation
	RequestIDSize int = 16

	maxAlphabetSize int = 255
	minAlphabetSize int = 8
)

var (
	ErrAlphabetTooLong     = errors.New("alphabet must contain no more than 255 characters")
	ErrAlphabetTooShort    = errors.New("alphabet must contain at least 8 characters")
	ErrAlphabetNotASCII    = errors.New("alphabet must contain only ASCII characters")
	ErrInvalidNanoIDLength = errors.New("nanoid length must be positive")
)

// NanoID generates random IDs of a fixed length over an ASCII alphabet
type NanoID struct {
	alphabet string
	mask     byte
	size     int
	step     int
}

// mask is the smallest 2^n-1 covering every alphabet index
func mask(alphabetLen int) byte {
	m := 1
	for m < alphabetLen-1 {
		m = m<<1 | 1
	}
	return byte(m)
}

// NewNanoID builds a generator. An empty alphabet means URLAlphabet.
func NewNanoID(alphabet string, size int) (*NanoID, error) {
	if alphabet == "" {
		alphabet = URLAlphabet
	}
	if size <= 0 {
		return nil, ErrInvalidNanoIDLength
	}

	// Generate indexes by byte position
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] > 127 {
			return nil, ErrAlphabetNotASCII
		}
	}
	if len(alphabet) > maxAlphabetSize {
		return nil, ErrAlphabetTooLong
	}
	if len(alphabet) < minAlphabetSize {
		return nil, ErrAlphabetTooShort
	}

	m := mask(len(alphabet))
	return &NanoID{
		alphabet: alphabet,
		mask:     m,
		size:     size,
		step:     int(math.Ceil(1.6 * float64(int(m)*size) / float64(len(alphabet)))),
	}, nil
}

func (n *NanoID) Generate() (string, error) {
	id := make([]byte, n.size)
	buffer := make([]byte, n.step)

	for position := 0; position < n.size; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		// Bytes masked past the alphabet are rejected to keep the distribution uniform
		for i := 0; i < n.step && position < n.size; i++ {
			if index := int(buffer[i] & n.mask); index < len(n.alphabet) {
				id[position] = n.alphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}

// RequestIDGenerator returns a generator for HTTP request IDs. crypto/rand
// failing is unrecoverable, so it panics instead of returning an empty ID.
func RequestIDGenerator() func() string {
	n, err := NewNanoID(URLAlphabet, RequestIDSize)
	if err != nil {
		panic(err)
	}
	return func() string {
		id, err := n.Generate()
		if err != nil {
			panic(err)
		}
		return id
	}
}
