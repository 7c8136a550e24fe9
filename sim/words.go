package sim

import (
	"math/bits"
	"math/rand/v2"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
)

// BitsPerWord is the number of simulated samples packed into one word.
const BitsPerWord = 32

// WordCount is the number of words needed to hold patterns samples.
func WordCount(patterns int) int {
	return (patterns + BitsPerWord - 1) / BitsPerWord
}

// WordSource supplies random simulation words.
type WordSource interface {
	Uint32() uint32
}

// NewSource returns a seeded PCG generator; equal seeds give equal streams.
func NewSource(seed uint64) WordSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Fill sets every word of w from src.
func Fill(w []uint32, src WordSource) {
	for i := range w {
		w[i] = src.Uint32()
	}
}

// CountOnes is the number of set bits in w.
func CountOnes(w []uint32) int {
	n := 0
	for _, x := range w {
		n += bits.OnesCount32(x)
	}
	return n
}

// Switching reduces a word array to the probability that two samples drawn
// from its bits disagree: 2·p·(1−p) with p the fraction of set bits. The
// result lies in [0, 0.5]; it is 0.5 exactly when half the bits are set and
// 0 when all bits agree. An empty array gives 0.
func Switching(w []uint32) float64 {
	if len(w) == 0 {
		return 0
	}
	total := float64(BitsPerWord * len(w))
	ones := float64(CountOnes(w))
	return 2 * (ones / total) * ((total - ones) / total)
}

// mask turns a complement flag into an XOR mask for whole words.
func mask(l aig.Lit) uint32 {
	if l.Neg() {
		return ^uint32(0)
	}
	return 0
}

// evalAnd writes dst = f0 ∧ f1, complementing each fanin as its literal
// says, across entire words.
func evalAnd(dst, f0, f1 []uint32, l0, l1 aig.Lit) {
	m0, m1 := mask(l0), mask(l1)
	for i := range dst {
		dst[i] = (f0[i] ^ m0) & (f1[i] ^ m1)
	}
}
