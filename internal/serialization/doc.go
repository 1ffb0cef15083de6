// Package serialization stores network models on disk.
//
// A Model is a neutral description of a network: layer descriptors,
// output names and named float64 matrices. Two codecs are provided.
//
// The binary .dag format is versioned and self-describing:
//
//	Format Structure:
//	  [64 bytes: fixed header]
//	    0x00 Magic "DAGB"
//	    0x04 Version (uint32 LE)
//	    0x08 Flags (uint32 LE)
//	    0x0C Reserved
//	    0x10 Header size (uint64 LE)
//	    0x18 Data size (uint64 LE)
//	    0x20 SHA-256 of the data section (32 bytes)
//	  [Header: JSON metadata]
//	  [Padding to 64 bytes]
//	  [Tensor data: float64 LE, row-major]
//
// The text format is a line-oriented grammar meant for inspection and
// diffing:
//
//	DAGNET 1
//	LAYER x INPUT(1)
//	LAYER h DENSE(2, TANH) FROM x
//	PARAM h.weight 2 1
//	[[0.25]
//	[-1.5e-07]]
//	OUTPUT h
//	END
//
// Example usage:
//
//	if err := serialization.WriteFile("model.dag", model); err != nil {
//	    log.Fatal(err)
//	}
//
//	model, err := serialization.ReadFile("model.dag")
//	if err != nil {
//	    log.Fatal(err)
//	}
package serialization
