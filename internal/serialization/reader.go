package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// IsBinary reports whether data starts with the .dag magic bytes.
func IsBinary(data []byte) bool {
	return bytes.HasPrefix(data, []byte(MagicBytes))
}

// Read decodes a binary .dag model with strict validation.
func Read(r io.Reader) (*Model, *Header, error) {
	return ReadWithOptions(r, ReaderOptions{ValidationLevel: ValidationStrict})
}

// ReadFile reads a binary .dag model from path with strict validation.
func ReadFile(path string) (*Model, *Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()
	return Read(file)
}

// ReadWithOptions decodes a binary .dag model.
//
// It returns the decoded model together with the raw header, which carries
// the version, creation time and tensor layout.
func ReadWithOptions(r io.Reader, opts ReaderOptions) (*Model, *Header, error) {
	fixed := make([]byte, FixedHeaderSize)
	if n, err := io.ReadFull(r, fixed); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			if n < len(MagicBytes) || !IsBinary(fixed) {
				return nil, nil, ErrInvalidMagic
			}
			return nil, nil, errors.Wrap(ErrTruncated, "fixed header")
		}
		return nil, nil, errors.Wrap(err, "failed to read fixed header")
	}

	if !IsBinary(fixed) {
		return nil, nil, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, nil, errors.Wrapf(ErrUnsupportedVersion, "got %d, expected %d", version, FormatVersion)
	}
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	var checksum [ChecksumSize]byte
	copy(checksum[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, nil, errors.Wrap(ErrTruncated, "header")
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse header JSON")
	}

	pos := int64(FixedHeaderSize) + int64(headerSize)
	if _, err := io.CopyN(io.Discard, r, paddedSize(pos)-pos); err != nil {
		return nil, nil, errors.Wrap(ErrTruncated, "padding")
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(dataSize)))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read tensor data")
	}
	if uint64(len(data)) != dataSize {
		return nil, nil, errors.Wrapf(ErrTruncated, "data section has %d of %d bytes", len(data), dataSize)
	}

	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(data, checksum); err != nil {
			return nil, nil, err
		}
	}
	if err := ValidateHeader(&header, int64(dataSize), opts.ValidationLevel); err != nil {
		return nil, nil, errors.Wrap(err, "validation failed")
	}

	m := &Model{
		Layers:     header.Layers,
		Outputs:    header.Outputs,
		Tensors:    make([]Tensor, 0, len(header.Tensors)),
		Metadata:   header.Metadata,
		Checkpoint: header.CheckpointMeta,
	}
	for _, meta := range header.Tensors {
		t, err := decodeTensor(meta, data)
		if err != nil {
			return nil, nil, err
		}
		m.Tensors = append(m.Tensors, t)
	}
	return m, &header, nil
}

func decodeTensor(meta TensorMeta, data []byte) (Tensor, error) {
	if len(meta.Shape) != 2 {
		return Tensor{}, &ValidationError{Type: "invalid_shape", Tensor: meta.Name, Details: "want [rows, cols]"}
	}
	rows, cols := meta.Shape[0], meta.Shape[1]
	n := int64(rows) * int64(cols)
	if rows <= 0 || cols <= 0 || meta.Offset < 0 || meta.Size != n*8 || meta.Offset+meta.Size > int64(len(data)) {
		return Tensor{}, errors.Wrapf(ErrOutOfBounds, "tensor %q", meta.Name)
	}

	raw := data[meta.Offset : meta.Offset+meta.Size]
	t := Tensor{Name: meta.Name, Rows: rows, Cols: cols, Data: make([]float64, n)}
	for i := range t.Data {
		v := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Tensor{}, errors.Wrapf(ErrNonFinite, "tensor %q element %d", meta.Name, i)
		}
		t.Data[i] = v
	}
	return t, nil
}
