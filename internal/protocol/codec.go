// Package protocol implements the wire codec for the live room's push
// channel.
package protocol

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

// Decompress inflates a gzip-compressed envelope payload.
func Decompress(payload []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, domain.ErrPayloadDecompress.WithCause(err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, domain.ErrPayloadDecompress.WithCause(err)
	}
	return raw, nil
}

// DecodeBatchFrame runs the inbound pipeline for a batch-bearing
// frame: decompress the payload, then decode the batch. Control
// frames have no batch and must be filtered out by the caller first.
func DecodeBatchFrame(f *Frame) (*Batch, error) {
	raw, err := Decompress(f.Payload)
	if err != nil {
		return nil, err
	}
	return ParseBatch(raw)
}
