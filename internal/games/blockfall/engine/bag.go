package engine

import (
	"fmt"
	"math/rand/v2"
)

// PCG stream words; the host seed supplies the first word of each. Bag
// order and exchange picks use separate streams so looking ahead, which
// shuffles new cycles on demand, never shifts a pick.
const (
	bagStream  = 0x9e3779b97f4a7c15
	pickStream = 0xc2b2ae3d27d4eb4f
)

// Bag is a 7-bag randomizer. Each cycle deals every kind exactly once in a
// shuffled order. Upcoming kinds are generated on demand into queue, so Peek
// can look ahead without changing what Next will return.
type Bag struct {
	src     *rand.PCG
	rng     *rand.Rand
	pickSrc *rand.PCG
	pickRng *rand.Rand
	seed    uint64
	queue   []Kind
}

// NewBag creates a bag seeded deterministically from seed.
func NewBag(seed int64) *Bag {
	b := &Bag{seed: uint64(seed)} //#nosec G115 -- seed bits are reinterpreted, not range-checked
	b.Reset()
	return b
}

// Reset discards any queued kinds and restarts the generator from the seed.
func (b *Bag) Reset() {
	b.src = rand.NewPCG(b.seed, bagStream)
	b.rng = rand.New(b.src)
	b.pickSrc = rand.NewPCG(b.seed, pickStream)
	b.pickRng = rand.New(b.pickSrc)
	b.queue = b.queue[:0]
}

// Reseed changes the seed and resets the bag.
func (b *Bag) Reseed(seed int64) {
	b.seed = uint64(seed) //#nosec G115 -- seed bits are reinterpreted, not range-checked
	b.Reset()
}

// refill appends one freshly shuffled cycle of all seven kinds.
func (b *Bag) refill() {
	cycle := AllKinds
	b.rng.Shuffle(len(cycle), func(i, j int) {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	})
	b.queue = append(b.queue, cycle[:]...)
}

// Next removes and returns the next kind.
func (b *Bag) Next() Kind {
	if len(b.queue) == 0 {
		b.refill()
	}
	k := b.queue[0]
	b.queue = b.queue[1:]
	return k
}

// Peek returns the next n kinds without consuming them. Repeated calls
// return the same sequence until Next is called.
func (b *Bag) Peek(n int) []Kind {
	if n <= 0 {
		return nil
	}
	for len(b.queue) < n {
		b.refill()
	}
	out := make([]Kind, n)
	copy(out, b.queue[:n])
	return out
}

// Other returns a uniformly random kind different from exclude.
func (b *Bag) Other(exclude Kind) Kind {
	kinds := make([]Kind, 0, KindCount-1)
	for _, k := range AllKinds {
		if k != exclude {
			kinds = append(kinds, k)
		}
	}
	return b.Pick(kinds)
}

// Pick returns a uniformly random element of kinds. It does not touch the
// bag order. Panics on an empty list.
func (b *Bag) Pick(kinds []Kind) Kind {
	if len(kinds) == 0 {
		panic("blockfall: pick from empty kind list")
	}
	return kinds[b.pickRng.IntN(len(kinds))]
}

// BagState is the serialisable form of a bag.
type BagState struct {
	Seed    uint64
	RNG     []byte // bag PCG state from MarshalBinary
	PickRNG []byte // exchange PCG state
	Queue   []Kind
}

func (b *Bag) state() BagState {
	rng, err := b.src.MarshalBinary()
	if err != nil {
		// PCG marshalling cannot fail.
		panic(fmt.Sprintf("blockfall: marshal bag rng: %v", err))
	}
	pick, err := b.pickSrc.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("blockfall: marshal pick rng: %v", err))
	}
	queue := make([]Kind, len(b.queue))
	copy(queue, b.queue)
	return BagState{Seed: b.seed, RNG: rng, PickRNG: pick, Queue: queue}
}

func (b *Bag) restore(st BagState) error {
	for _, k := range st.Queue {
		if !k.Valid() {
			return fmt.Errorf("engine: bag queue holds invalid kind %d", k)
		}
	}
	src := rand.NewPCG(st.Seed, bagStream)
	if err := src.UnmarshalBinary(st.RNG); err != nil {
		return fmt.Errorf("engine: restore bag rng: %w", err)
	}
	pickSrc := rand.NewPCG(st.Seed, pickStream)
	if err := pickSrc.UnmarshalBinary(st.PickRNG); err != nil {
		return fmt.Errorf("engine: restore pick rng: %w", err)
	}
	b.seed = st.Seed
	b.src = src
	b.rng = rand.New(src)
	b.pickSrc = pickSrc
	b.pickRng = rand.New(pickSrc)
	b.queue = append(b.queue[:0], st.Queue...)
	return nil
}
