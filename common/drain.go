// Package common holds small helpers shared across the toolkit.
package common

import (
	"bytes"
	"fmt"
	"io"
)

// drainChunkSize is the read granularity used by Drain.
const drainChunkSize = 4096

// Drain reads src to exhaustion in fixed-size chunks and returns the
// accumulated bytes. The source is closed on every return path. Short reads
// are accumulated and the loop continues; io.EOF ends the loop.
func Drain(src io.ReadCloser) ([]byte, error) {
	defer func() {
		_ = src.Close()
	}()

	var buf bytes.Buffer
	chunk := make([]byte, drainChunkSize)
	for {
		n, err := src.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("error draining source: %w", err)
		}
	}
}
