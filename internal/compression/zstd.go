// Package compression wraps zstd for custody request bodies.
package compression

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Encoding is the Content-Encoding token for zstd bodies.
const Encoding = "zstd"

// minSize is the smallest payload worth compressing.
const minSize = 128

type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	enabled bool
}

// NewCompressor returns a Compressor. Levels 1-3 map to fastest, default
// and better compression. A disabled Compressor still decodes.
func NewCompressor(level int, enabled bool) (*Compressor, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return &Compressor{decoder: decoder}, nil
	}

	var encoderLevel zstd.EncoderLevel
	switch level {
	case 1:
		encoderLevel = zstd.SpeedFastest
	case 3:
		encoderLevel = zstd.SpeedBetterCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		decoder.Close()
		return nil, err
	}

	return &Compressor{
		encoder: encoder,
		decoder: decoder,
		enabled: true,
	}, nil
}

// Enabled reports whether Compress may compress.
func (c *Compressor) Enabled() bool { return c != nil && c.enabled }

// Compress returns the zstd form of data and true, or data unchanged and
// false when compression is off, the payload is small, or it would not shrink.
func (c *Compressor) Compress(data []byte) ([]byte, bool) {
	if !c.Enabled() || len(data) < minSize {
		return data, false
	}

	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	if len(compressed) >= len(data) {
		return data, false
	}
	return compressed, true
}

// Decompress decodes a zstd payload.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decode zstd: %w", err)
	}
	return out, nil
}

func (c *Compressor) Close() error {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
	return nil
}
