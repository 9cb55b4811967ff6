package codec

import (
	"github.com/spf13/afero"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// Text writes strings and byte slices verbatim.
type Text struct{}

// Save implements Writer.
func (Text) Save(fs afero.Fs, path string, v interface{}) error {
	var contents []byte
	switch data := v.(type) {
	case string:
		contents = []byte(data)
	case []byte:
		contents = data
	default:
		return errors.New("text codec expects a string or []byte")
	}

	if err := afero.WriteFile(fs, path, contents, 0644); err != nil {
		return errors.WithContext(err, "write text file")
	}
	return nil
}

// Load implements Codec. The contents are returned as a string.
func (Text) Load(fs afero.Fs, path string) (interface{}, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WithContext(err, "read text file")
	}
	return string(contents), nil
}
