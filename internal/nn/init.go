package nn

import (
	"math"
	"math/rand"
	"sync"

	"github.com/born-ml/gradcam/internal/tensor"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(1)) //nolint:gosec // math/rand is appropriate for ML weight initialization
)

// SeedInit reseeds the generator used for weight initialization and
// dropout masks. Models built after the same seed have identical weights.
func SeedInit(seed int64) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rng = rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is appropriate for ML weight initialization
}

func uniform(data []float32, lo, hi float64) {
	rngMu.Lock()
	defer rngMu.Unlock()
	for i := range data {
		data[i] = float32(lo + rng.Float64()*(hi-lo))
	}
}

// Xavier initializes a tensor using Xavier/Glorot uniform initialization.
//
// Samples from U(-bound, bound) with bound = sqrt(6 / (fan_in + fan_out)).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Zeros(shape, backend)
	uniform(t.Data(), -bound, bound)
	return t
}
