package serialization

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Version is the dagnet version recorded in written headers.
const Version = "0.3.0"

// Write encodes m in the binary .dag format.
func Write(w io.Writer, m *Model) error {
	header := Header{
		FormatVersion:  FormatVersion,
		DagnetVersion:  Version,
		ModelType:      "Network",
		CreatedAt:      time.Now().UTC(),
		Layers:         m.Layers,
		Outputs:        m.Outputs,
		Tensors:        make([]TensorMeta, 0, len(m.Tensors)),
		Metadata:       m.Metadata,
		CheckpointMeta: m.Checkpoint,
	}
	if m.Checkpoint != nil {
		header.ModelType = "Checkpoint"
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Lay out tensor data and collect it for the checksum.
	var data bytes.Buffer
	for _, t := range m.Tensors {
		if t.Rows*t.Cols != len(t.Data) {
			return errors.Errorf("tensor %q: shape [%d %d] does not match %d values", t.Name, t.Rows, t.Cols, len(t.Data))
		}
		meta := TensorMeta{
			Name:   t.Name,
			DType:  DTypeFloat64,
			Shape:  []int{t.Rows, t.Cols},
			Offset: int64(data.Len()),
			Size:   int64(len(t.Data) * 8),
		}
		if err := ValidateTensorName(meta.Name); err != nil {
			return err
		}
		header.Tensors = append(header.Tensors, meta)

		var buf [8]byte
		for _, v := range t.Data {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			data.Write(buf[:])
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.CheckpointMeta != nil {
		flags |= FlagHasOptimizer
	}

	// 0x00-0x03: magic, 0x04-0x07: version, 0x08-0x0B: flags,
	// 0x0C-0x0F: reserved, 0x10-0x17: header size, 0x18-0x1F: data size,
	// 0x20-0x3F: SHA-256 checksum of the data section.
	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(data.Len()))
	checksum := ComputeChecksum(data.Bytes())
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	pos := int64(FixedHeaderSize + len(headerJSON))
	padding := paddedSize(pos) - pos

	bw := bufio.NewWriter(w)
	for _, chunk := range [][]byte{fixed, headerJSON, make([]byte, padding), data.Bytes()} {
		if _, err := bw.Write(chunk); err != nil {
			return errors.Wrap(err, "failed to write model")
		}
	}
	return errors.Wrap(bw.Flush(), "failed to write model")
}

// WriteFile writes m to path in the binary .dag format.
func WriteFile(path string, m *Model) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "failed to close file")
		}
	}()
	return Write(file, m)
}
