// Package loader reads and writes model weights in the SafeTensors format.
//
// A SafeTensors file is:
//
//	[8 bytes]  header size N (uint64, little-endian)
//	[N bytes]  JSON header: {"name": {"dtype", "shape", "data_offsets"}, "__metadata__": {...}}
//	[...]      tensor data, offsets relative to the end of the header
//
// Tensors are always materialized as float32. F64, F16 and BF16 data is
// converted on load, which covers checkpoints exported from PyTorch in
// reduced precision.
//
// Example:
//
//	if err := loader.LoadWeights(net, "cifar-vgg.safetensors"); err != nil {
//	    log.Fatalf("load weights: %v", err)
//	}
package loader
