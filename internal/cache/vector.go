package cache

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeVector serializes an embedding vector as little-endian float32s
// for storage in a byte-oriented cache layer
func EncodeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeVector deserializes a vector produced by EncodeVector
func DecodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("corrupt vector entry: %d bytes", len(data))
	}

	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector, nil
}
