package loader

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/born-ml/gradcam/internal/tensor"
)

// MaxHeaderSize bounds the JSON header read from untrusted files.
const MaxHeaderSize = 100 * 1024 * 1024

// DType is a SafeTensors element type.
type DType string

// Supported SafeTensors data types.
const (
	F16  DType = "F16"
	BF16 DType = "BF16"
	F32  DType = "F32"
	F64  DType = "F64"
)

// Size returns the element size in bytes, or 0 for unsupported types.
func (d DType) Size() int {
	switch d {
	case F16, BF16:
		return 2
	case F32:
		return 4
	case F64:
		return 8
	default:
		return 0
	}
}

// TensorInfo describes one tensor in the header.
type TensorInfo struct {
	DType       DType    `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end)
}

// Header is the parsed SafeTensors JSON header.
type Header struct {
	Metadata map[string]string
	Tensors  map[string]TensorInfo
}

// UnmarshalJSON splits the "__metadata__" entry from the tensor entries.
func (h *Header) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	h.Tensors = make(map[string]TensorInfo, len(rawMap))
	for key, value := range rawMap {
		if key == "__metadata__" {
			continue
		}
		var info TensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}

	return nil
}

// Reader reads tensors from a SafeTensors file.
type Reader struct {
	file       *os.File
	header     Header
	dataOffset int64
}

// Open opens a SafeTensors file and validates its header.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path is supplied by the user on purpose
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r, err := newReader(file)
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, err
	}
	return r, nil
}

func newReader(file *os.File) (*Reader, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize || int64(headerSize) > stat.Size()-8 { //nolint:gosec // G115: bounded by MaxHeaderSize
		return nil, &ValidationError{Err: ErrHeaderTooLarge, Details: fmt.Sprintf("%d bytes", headerSize)}
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	dataOffset := int64(8 + headerSize) //nolint:gosec // G115: bounded by MaxHeaderSize
	if err := validateOffsets(header.Tensors, stat.Size()-dataOffset); err != nil {
		return nil, err
	}

	return &Reader{
		file:       file,
		header:     header,
		dataOffset: dataOffset,
	}, nil
}

// validateOffsets rejects tensors whose byte ranges overlap, leave the data
// section, or disagree with their dtype and shape.
func validateOffsets(tensors map[string]TensorInfo, dataSize int64) error {
	names := sortedNames(tensors)
	sort.SliceStable(names, func(i, j int) bool {
		return tensors[names[i]].DataOffsets[0] < tensors[names[j]].DataOffsets[0]
	})

	var prevEnd int64
	prevName := ""
	for _, name := range names {
		info := tensors[name]
		start, end := info.DataOffsets[0], info.DataOffsets[1]

		if start < 0 || end < start || end > dataSize {
			return &ValidationError{
				Tensor:  name,
				Err:     ErrOutOfBounds,
				Details: fmt.Sprintf("offsets [%d, %d) with %d data bytes", start, end, dataSize),
			}
		}
		if start < prevEnd {
			return &ValidationError{
				Tensor:  name,
				Err:     ErrOffsetOverlap,
				Details: fmt.Sprintf("starts at %d inside %q ending at %d", start, prevName, prevEnd),
			}
		}

		size := info.DType.Size()
		if size == 0 {
			return &ValidationError{Tensor: name, Err: ErrUnsupportedDType, Details: string(info.DType)}
		}
		if want := int64(tensor.Shape(info.Shape).NumElements() * size); end-start != want {
			return &ValidationError{
				Tensor:  name,
				Err:     ErrSizeMismatch,
				Details: fmt.Sprintf("%d bytes for %s%v, expected %d", end-start, info.DType, info.Shape, want),
			}
		}

		prevEnd, prevName = end, name
	}
	return nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Metadata returns the "__metadata__" entries of the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the tensor names in sorted order.
func (r *Reader) TensorNames() []string {
	return sortedNames(r.header.Tensors)
}

// TensorInfo returns the header entry for a tensor.
func (r *Reader) TensorInfo(name string) (TensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return TensorInfo{}, fmt.Errorf("%q: %w", name, ErrTensorNotFound)
	}
	return info, nil
}

// LoadTensor reads a tensor and converts it to float32.
func (r *Reader) LoadTensor(name string, device tensor.Device) (*tensor.RawTensor, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	start := r.dataOffset + info.DataOffsets[0]
	buf := make([]byte, info.DataOffsets[1]-info.DataOffsets[0])
	if _, err := r.file.ReadAt(buf, start); err != nil {
		return nil, fmt.Errorf("failed to read tensor %s: %w", name, err)
	}

	raw, err := tensor.NewRaw(tensor.Shape(info.Shape), device)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}
	decode(raw.AsFloat32(), buf, info.DType)
	return raw, nil
}

// LoadAll reads every tensor in the file.
func (r *Reader) LoadAll(device tensor.Device) (map[string]*tensor.RawTensor, error) {
	out := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, name := range r.TensorNames() {
		raw, err := r.LoadTensor(name, device)
		if err != nil {
			return nil, err
		}
		out[name] = raw
	}
	return out, nil
}

// decode converts little-endian elements of dtype into dst.
func decode(dst []float32, buf []byte, dtype DType) {
	switch dtype {
	case F32:
		for i := range dst {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		}
	case F64:
		for i := range dst {
			dst[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:])))
		}
	case BF16:
		for i := range dst {
			dst[i] = math.Float32frombits(uint32(binary.LittleEndian.Uint16(buf[i*2:])) << 16)
		}
	case F16:
		for i := range dst {
			dst[i] = halfToFloat32(binary.LittleEndian.Uint16(buf[i*2:]))
		}
	}
}

// halfToFloat32 converts an IEEE 754 binary16 value.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h) & 0x3ff

	switch {
	case exp == 0 && mant == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// Subnormal: mant * 2^-24
		f := float32(mant) / (1 << 24)
		if sign != 0 {
			f = -f
		}
		return f
	case exp == 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	default:
		return math.Float32frombits(sign | (exp+112)<<23 | mant<<13)
	}
}

func sortedNames(tensors map[string]TensorInfo) []string {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
