package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "DAGB"
	FormatVersion   = 1
	HeaderAlignment = 64   // Tensor data starts on a 64-byte boundary
	FixedHeaderSize = 64   // 0x40 bytes
	ChecksumSize    = 32   // SHA-256
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header

	TextMagic   = "DAGNET"
	TextVersion = 1
)

// DTypeFloat64 is the only tensor data type the format stores.
const DTypeFloat64 = "float64"

// Flags for the .dag format.
const (
	FlagHasMetadata  uint32 = 1 << 0 // bit 0: custom metadata included
	FlagHasOptimizer uint32 = 1 << 1 // bit 1: optimizer state included
)

// Model is the serializable form of a network.
type Model struct {
	Layers     []LayerMeta
	Outputs    []string // Output layer names, in output order
	Tensors    []Tensor // Parameters named "<layer>.<param>", then optimizer state
	Metadata   map[string]string
	Checkpoint *CheckpointMeta // Binary format only
}

// LayerMeta describes one layer.
type LayerMeta struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"` // INPUT, DENSE, ADD, CONCAT, SOFTMAX
	Size       int      `json:"size"`
	Activation string   `json:"activation,omitempty"`
	Epsilon    float64  `json:"epsilon,omitempty"`
	Inputs     []string `json:"inputs,omitempty"` // Predecessor names, in slot order
}

// Tensor is a named row-major float64 matrix.
type Tensor struct {
	Name string
	Rows int
	Cols int
	Data []float64
}

// Tensor returns the tensor with the given name.
func (m *Model) Tensor(name string) (*Tensor, bool) {
	for i := range m.Tensors {
		if m.Tensors[i].Name == name {
			return &m.Tensors[i], true
		}
	}
	return nil, false
}

// Header represents the JSON header in a .dag file.
type Header struct {
	FormatVersion  int               `json:"format_version"`       // Version of the .dag format
	DagnetVersion  string            `json:"dagnet_version"`       // Version of dagnet that created this file
	ModelType      string            `json:"model_type"`           // "Network" or "Checkpoint"
	CreatedAt      time.Time         `json:"created_at"`           // When the file was created
	Layers         []LayerMeta       `json:"layers"`               // Layer graph
	Outputs        []string          `json:"outputs"`              // Output layer names
	Tensors        []TensorMeta      `json:"tensors"`              // Tensor metadata
	Metadata       map[string]string `json:"metadata"`             // Custom metadata
	CheckpointMeta *CheckpointMeta   `json:"checkpoint,omitempty"` // Checkpoint metadata (optional)
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	Epoch           int                `json:"epoch"`            // Training epoch number
	Step            int64              `json:"step"`             // Training step number
	Loss            float64            `json:"loss"`             // Loss value at checkpoint
	OptimizerType   string             `json:"optimizer_type"`   // "SGD", "RMSPROP", "ADAM"
	OptimizerConfig map[string]float64 `json:"optimizer_config"` // Optimizer hyperparameters
	TrainingMeta    map[string]any     `json:"training_meta"`    // Additional training metadata
}

// TensorMeta describes a tensor in the .dag file.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "h.weight")
	DType  string `json:"dtype"`  // Always "float64"
	Shape  []int  `json:"shape"`  // [rows, cols]
	Offset int64  `json:"offset"` // Offset in the data section (bytes from start of tensor data)
	Size   int64  `json:"size"`   // Size in bytes
}

// paddedSize returns n rounded up to the header alignment.
func paddedSize(n int64) int64 {
	return n + (HeaderAlignment-(n%HeaderAlignment))%HeaderAlignment
}
