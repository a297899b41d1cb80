package dice

import (
	"crypto/rand"
	"math/big"
	"sync"
)

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Intn panics if n <= 0 or crypto/rand fails.
func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// SequenceSource replays die faces in order, cycling when exhausted.
// Faces are 1-based; a face larger than n is reduced modulo n.
type SequenceSource struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewSequenceSource returns a Source yielding faces in order.
//
// Precondition: len(faces) > 0.
func NewSequenceSource(faces ...int) *SequenceSource {
	return &SequenceSource{faces: faces}
}

// Intn returns the next face minus one, within [0, n).
func (s *SequenceSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	face := s.faces[s.next%len(s.faces)]
	s.next++
	return (face - 1 + n) % n
}
