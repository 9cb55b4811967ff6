package codec

import (
	"github.com/sbinet/npyio"
	"github.com/spf13/afero"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// NPY reads and writes NumPy .npy array files. Arrays are represented as
// []float64 on the Go side; multi-dimensional arrays are flattened in C
// order, matching what npyio produces.
type NPY struct{}

// Save implements Writer.
func (NPY) Save(fs afero.Fs, path string, v interface{}) error {
	data, ok := v.([]float64)
	if !ok {
		return errors.New("npy codec expects a []float64")
	}

	f, err := fs.Create(path)
	if err != nil {
		return errors.WithContext(err, "create npy file")
	}
	defer f.Close()

	if err := npyio.Write(f, data); err != nil {
		return errors.WithContext(err, "write npy array")
	}
	return nil
}

// Load implements Codec.
func (NPY) Load(fs afero.Fs, path string) (interface{}, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.WithContext(err, "open npy file")
	}
	defer f.Close()

	var data []float64
	if err := npyio.Read(f, &data); err != nil {
		return nil, errors.WithContext(err, "read npy array")
	}
	return data, nil
}
