package serialization

import (
	"errors"
	"strings"
	"testing"
)

// TestValidateTensorOffsets checks overlap, bounds and negative value detection.
func TestValidateTensorOffsets(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []TensorMeta
		dataSize int64
		wantType string // empty means no error
	}{
		{
			name: "contiguous",
			tensors: []TensorMeta{
				{Name: "a.weight", Offset: 0, Size: 64},
				{Name: "a.bias", Offset: 64, Size: 16},
			},
			dataSize: 80,
		},
		{
			name: "unsorted but disjoint",
			tensors: []TensorMeta{
				{Name: "b.weight", Offset: 40, Size: 40},
				{Name: "a.weight", Offset: 0, Size: 40},
			},
			dataSize: 80,
		},
		{
			name: "overlap by one byte",
			tensors: []TensorMeta{
				{Name: "a.weight", Offset: 0, Size: 64},
				{Name: "a.bias", Offset: 63, Size: 16},
			},
			dataSize: 100,
			wantType: "offset_overlap",
		},
		{
			name: "beyond data section",
			tensors: []TensorMeta{
				{Name: "a.weight", Offset: 8, Size: 80},
			},
			dataSize: 80,
			wantType: "out_of_bounds",
		},
		{
			name: "misaligned float64 data",
			tensors: []TensorMeta{
				{Name: "a.weight", Offset: 4, Size: 16},
			},
			dataSize: 80,
			wantType: "misaligned",
		},
		{
			name: "negative offset",
			tensors: []TensorMeta{
				{Name: "a.weight", Offset: -8, Size: 8},
			},
			dataSize: 80,
			wantType: "negative_offset",
		},
		{
			name: "negative size",
			tensors: []TensorMeta{
				{Name: "a.weight", Offset: 0, Size: -8},
			},
			dataSize: 80,
			wantType: "negative_offset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, tt.dataSize)
			if tt.wantType == "" {
				if err != nil {
					t.Errorf("ValidateTensorOffsets() unexpected error: %v", err)
				}
				return
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %T (%v)", err, err)
			}
			if validationErr.Type != tt.wantType {
				t.Errorf("Expected %s error, got %s", tt.wantType, validationErr.Type)
			}
		})
	}
}

// TestValidateTensorName rejects names that cannot be mapped back to a layer.
func TestValidateTensorName(t *testing.T) {
	valid := []string{"h.weight", "h.bias", "out_1.weight", "optimizer.0.v"}
	for _, name := range valid {
		if err := ValidateTensorName(name); err != nil {
			t.Errorf("ValidateTensorName(%q) unexpected error: %v", name, err)
		}
	}

	invalid := []string{
		"",
		"weight",
		".weight",
		"h.",
		"h/x.weight",
		"h\\x.weight",
		"h .weight",
		"h.weight\x00",
		strings.Repeat("a", MaxTensorNameLen) + ".w",
	}
	for _, name := range invalid {
		if err := ValidateTensorName(name); err == nil {
			t.Errorf("ValidateTensorName(%q) expected error", name)
		}
	}
}

// TestValidateTensorMeta checks dtype and shape/size agreement.
func TestValidateTensorMeta(t *testing.T) {
	ok := TensorMeta{Name: "h.weight", DType: DTypeFloat64, Shape: []int{2, 3}, Size: 48}
	if err := ValidateTensorMeta(ok); err != nil {
		t.Fatalf("ValidateTensorMeta() unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		mutate   func(*TensorMeta)
		wantType string
	}{
		{"float32", func(m *TensorMeta) { m.DType = "float32" }, "unsupported_dtype"},
		{"rank 1", func(m *TensorMeta) { m.Shape = []int{6} }, "invalid_shape"},
		{"zero rows", func(m *TensorMeta) { m.Shape = []int{0, 3} }, "invalid_shape"},
		{"size disagrees", func(m *TensorMeta) { m.Size = 40 }, "size_mismatch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := ok
			meta.Shape = append([]int(nil), ok.Shape...)
			tt.mutate(&meta)

			var validationErr *ValidationError
			if err := ValidateTensorMeta(meta); !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if validationErr.Type != tt.wantType {
				t.Errorf("Expected %s, got %s", tt.wantType, validationErr.Type)
			}
		})
	}
}

// TestValidateHeader_Levels verifies that the validation level controls which checks run.
func TestValidateHeader_Levels(t *testing.T) {
	overlapping := &Header{
		Tensors: []TensorMeta{
			{Name: "a.weight", DType: DTypeFloat64, Shape: []int{1, 2}, Offset: 0, Size: 16},
			{Name: "a.bias", DType: DTypeFloat64, Shape: []int{1, 2}, Offset: 8, Size: 16},
		},
	}

	if err := ValidateHeader(overlapping, 32, ValidationStrict); err == nil {
		t.Error("Strict validation should detect the overlap")
	}
	if err := ValidateHeader(overlapping, 32, ValidationNormal); err != nil {
		t.Errorf("Normal validation should skip the offset scan, got: %v", err)
	}

	duplicate := &Header{
		Tensors: []TensorMeta{
			{Name: "a.weight", DType: DTypeFloat64, Shape: []int{1, 1}, Offset: 0, Size: 8},
			{Name: "a.weight", DType: DTypeFloat64, Shape: []int{1, 1}, Offset: 8, Size: 8},
		},
	}
	if err := ValidateHeader(duplicate, 16, ValidationNormal); err == nil {
		t.Error("Duplicate tensor names should be rejected")
	}
	if err := ValidateHeader(duplicate, 16, ValidationNone); err != nil {
		t.Errorf("ValidationNone should accept anything, got: %v", err)
	}
}

// TestValidationError_ErrorMessages checks the formatting of each error shape.
func TestValidationError_ErrorMessages(t *testing.T) {
	tests := []struct {
		err  *ValidationError
		want string
	}{
		{&ValidationError{Type: "too_many_tensors", Details: "got 5"}, "too_many_tensors: got 5"},
		{&ValidationError{Type: "invalid_name", Tensor: "x", Details: "bad"}, `invalid_name: tensor "x": bad`},
		{&ValidationError{Type: "offset_overlap", Tensor: "a.w", Tensor2: "a.b", Details: "d"}, `offset_overlap: tensors "a.w" and "a.b": d`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

// FuzzValidateTensorName ensures name validation never panics.
func FuzzValidateTensorName(f *testing.F) {
	for _, seed := range []string{"h.weight", "", "..", "a/b.c", "\x00"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, name string) {
		_ = ValidateTensorName(name)
	})
}
