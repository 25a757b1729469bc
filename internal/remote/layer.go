package remote

import (
	"bytes"
	"io"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/types"
	"github.com/klauspost/compress/zstd"
)

// titleAnnotation carries the original file name on each layer.
const titleAnnotation = "org.opencontainers.image.title"

// contentLayer implements v1.Layer holding one file, zstd-compressed on the wire.
type contentLayer struct {
	compressed   []byte
	uncompressed []byte
}

var zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))

func newContentLayer(data []byte) *contentLayer {
	return &contentLayer{
		compressed:   zstdEncoder.EncodeAll(data, nil),
		uncompressed: data,
	}
}

// addendum wraps a file as a layer annotated with its name.
func addendum(fileName string, data []byte) mutate.Addendum {
	return mutate.Addendum{
		Layer:       newContentLayer(data),
		Annotations: map[string]string{titleAnnotation: fileName},
		MediaType:   types.OCILayerZStd,
	}
}

func (l *contentLayer) Digest() (v1.Hash, error) {
	h, _, err := v1.SHA256(bytes.NewReader(l.compressed))
	return h, err
}

func (l *contentLayer) DiffID() (v1.Hash, error) {
	h, _, err := v1.SHA256(bytes.NewReader(l.uncompressed))
	return h, err
}

func (l *contentLayer) Compressed() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.compressed)), nil
}

func (l *contentLayer) Uncompressed() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.uncompressed)), nil
}

func (l *contentLayer) Size() (int64, error)                { return int64(len(l.compressed)), nil }
func (l *contentLayer) MediaType() (types.MediaType, error) { return types.OCILayerZStd, nil }
