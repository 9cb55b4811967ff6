package codec

import (
	"encoding/csv"

	"github.com/spf13/afero"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// CSV reads and writes [][]string tables through encoding/csv.
type CSV struct{}

// Save implements Writer.
func (CSV) Save(fs afero.Fs, path string, v interface{}) error {
	records, ok := v.([][]string)
	if !ok {
		return errors.New("csv codec expects a [][]string")
	}

	f, err := fs.Create(path)
	if err != nil {
		return errors.WithContext(err, "create csv file")
	}
	defer f.Close()

	if err := csv.NewWriter(f).WriteAll(records); err != nil {
		return errors.WithContext(err, "write csv records")
	}
	return nil
}

// Load implements Codec.
func (CSV) Load(fs afero.Fs, path string) (interface{}, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.WithContext(err, "open csv file")
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.WithContext(err, "read csv records")
	}
	return records, nil
}
