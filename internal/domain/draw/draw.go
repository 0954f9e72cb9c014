package draw

import "github.com/questx-lab/campaign/pkg/crypto"

// Rand yields uniform integers in [0, n).
type Rand interface {
	Intn(n int) int
}

type cryptoRand struct{}

func (cryptoRand) Intn(n int) int {
	return crypto.RandIntn(n)
}

// CryptoRand draws from crypto/rand. Production draws always use it.
var CryptoRand Rand = cryptoRand{}

// Shuffle permutes items in place with Fisher-Yates.
func Shuffle[T any](r Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Select returns min(n, len(pool)) distinct elements of pool chosen
// uniformly at random. pool is not modified.
func Select[T any](r Rand, pool []T, n int) []T {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	shuffled := append([]T(nil), pool...)
	Shuffle(r, shuffled)

	if n > len(shuffled) {
		n = len(shuffled)
	}

	return shuffled[:n]
}

// PickOne returns a uniformly chosen element of pool.
func PickOne[T any](r Rand, pool []T) (T, bool) {
	var zero T
	if len(pool) == 0 {
		return zero, false
	}

	return pool[r.Intn(len(pool))], true
}
