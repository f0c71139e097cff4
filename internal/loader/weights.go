package loader

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
)

// LoadWeights loads a SafeTensors file into a network's parameters.
// Tensor names must match the network's qualified parameter names.
func LoadWeights[B tensor.Backend](net *nn.Network[B], path string) error {
	r, err := Open(path)
	if err != nil {
		return fmt.Errorf("load weights %s: %w", path, err)
	}
	defer func() {
		_ = r.Close() // Read-only file
	}()

	state, err := r.LoadAll(net.Device())
	if err != nil {
		return fmt.Errorf("load weights %s: %w", path, err)
	}
	if err := net.LoadStateDict(state); err != nil {
		return fmt.Errorf("load weights %s: %w", path, err)
	}
	return nil
}

// SaveWeights writes a network's parameters to a SafeTensors file.
func SaveWeights[B tensor.Backend](net *nn.Network[B], path string, metadata map[string]string) error {
	if err := WriteFile(path, net.StateDict(), metadata); err != nil {
		return fmt.Errorf("save weights %s: %w", path, err)
	}
	return nil
}
