package codec

import (
	"image"

	"github.com/spf13/afero"
	"golang.org/x/image/tiff"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// TIFF reads and writes TIFF microscopy images as image.Image values.
// Images are written uncompressed, matching what the downstream analysis
// tools expect.
type TIFF struct{}

// Save implements Writer.
func (TIFF) Save(fs afero.Fs, path string, v interface{}) error {
	img, ok := v.(image.Image)
	if !ok {
		return errors.New("tiff codec expects an image.Image")
	}

	f, err := fs.Create(path)
	if err != nil {
		return errors.WithContext(err, "create tiff file")
	}
	defer f.Close()

	if err := tiff.Encode(f, img, nil); err != nil {
		return errors.WithContext(err, "encode tiff image")
	}
	return nil
}

// Load implements Codec.
func (TIFF) Load(fs afero.Fs, path string) (interface{}, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.WithContext(err, "open tiff file")
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, errors.WithContext(err, "decode tiff image")
	}
	return img, nil
}
