package serialization

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Header limits. A .dag file larger than these is rejected before any
// tensor data is read.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // JSON header bytes
	MaxTensorCount   = 100_000           // Parameters plus optimizer buffers
	MaxTensorNameLen = 4096
	MaxLayerCount    = 100_000
)

// ValidationLevel controls how much of the header is checked on read.
type ValidationLevel int

const (
	// ValidationStrict checks names, shapes and the data section layout.
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks names and shapes only.
	ValidationNormal
	// ValidationNone trusts the header as written.
	ValidationNone
)

// ValidateTensorOffsets checks that every tensor occupies its own
// float64-aligned byte range inside the data section.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	byOffset := slices.Clone(tensors)
	slices.SortFunc(byOffset, func(a, b TensorMeta) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	for i, t := range byOffset {
		end := t.Offset + t.Size
		switch {
		case t.Offset < 0 || t.Size < 0:
			return &ValidationError{
				Type:    "negative_offset",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d, size %d", t.Offset, t.Size),
			}
		case end > dataSize:
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  t.Name,
				Details: fmt.Sprintf("bytes [%d, %d) run past the %d-byte data section", t.Offset, end, dataSize),
			}
		case t.Offset%8 != 0:
			return &ValidationError{
				Type:    "misaligned",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d is not a multiple of 8", t.Offset),
			}
		}

		if i+1 < len(byOffset) && end > byOffset[i+1].Offset {
			next := byOffset[i+1]
			return &ValidationError{
				Type:    "offset_overlap",
				Tensor:  t.Name,
				Tensor2: next.Name,
				Details: fmt.Sprintf("bytes [%d, %d) and [%d, %d) share data", t.Offset, end, next.Offset, next.Offset+next.Size),
			}
		}
	}

	return nil
}

// ValidateTensorName checks that name has the form "<owner>.<param>" and
// contains no separators or control bytes.
func ValidateTensorName(name string) error {
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}

	dot := strings.IndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "want <layer>.<param>",
		}
	}

	if strings.ContainsAny(name, "/\\ \t\r\n\x00") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains a path separator, whitespace or null byte",
		}
	}

	return nil
}

// ValidateTensorMeta checks the dtype and that shape agrees with size.
func ValidateTensorMeta(t TensorMeta) error {
	if t.DType != DTypeFloat64 {
		return &ValidationError{
			Type:    "unsupported_dtype",
			Tensor:  t.Name,
			Details: fmt.Sprintf("got %q, want %q", t.DType, DTypeFloat64),
		}
	}
	if len(t.Shape) != 2 || t.Shape[0] <= 0 || t.Shape[1] <= 0 {
		return &ValidationError{
			Type:    "invalid_shape",
			Tensor:  t.Name,
			Details: fmt.Sprintf("shape %v, want [rows, cols] with positive dimensions", t.Shape),
		}
	}
	if want := int64(t.Shape[0]) * int64(t.Shape[1]) * 8; t.Size != want {
		return &ValidationError{
			Type:    "size_mismatch",
			Tensor:  t.Name,
			Details: fmt.Sprintf("shape %v needs %d bytes, header says %d", t.Shape, want, t.Size),
		}
	}
	return nil
}

// ValidateHeader checks the JSON header of a .dag file against the
// size of its data section.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if len(h.Tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(h.Tensors), MaxTensorCount),
		}
	}
	if len(h.Layers) > MaxLayerCount {
		return &ValidationError{
			Type:    "too_many_layers",
			Details: fmt.Sprintf("got %d, max %d", len(h.Layers), MaxLayerCount),
		}
	}

	seen := make(map[string]bool, len(h.Tensors))
	for _, t := range h.Tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
		if seen[t.Name] {
			return &ValidationError{Type: "duplicate_tensor", Tensor: t.Name, Details: "name appears more than once"}
		}
		seen[t.Name] = true
		if err := ValidateTensorMeta(t); err != nil {
			return err
		}
	}

	if level == ValidationStrict {
		if err := ValidateTensorOffsets(h.Tensors, dataSize); err != nil {
			return err
		}
	}

	return nil
}
