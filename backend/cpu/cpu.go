// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/gradcam/internal/backend/cpu"
	"github.com/born-ml/gradcam/tensor"
)

// Backend runs every kernel on the host in float32.
type Backend = internalcpu.CPUBackend

var _ tensor.Backend = (*Backend)(nil)

// New returns a CPU backend. It is stateless and safe to share.
func New() *Backend {
	return internalcpu.New()
}
