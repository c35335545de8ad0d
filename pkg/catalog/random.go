package catalog

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler permutes n elements through swap.
// *rand.Rand satisfies it but is not safe for concurrent use; see NewRand.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRand returns a Shuffler seeded with seed that may be shared between goroutines.
func NewRand(seed int64) Shuffler {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRand returns a shared Shuffler seeded from the clock.
func NewTimeSeededRand() Shuffler {
	return NewRand(time.Now().UnixNano())
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}

// shuffled returns a shuffled copy; products is left untouched.
func shuffled(rng Shuffler, products []*Product) []*Product {
	out := make([]*Product, len(products))
	copy(out, products)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
