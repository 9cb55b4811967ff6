package codec

import (
	"encoding/json"

	"github.com/spf13/afero"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// JSON round-trips values through encoding/json.
type JSON struct{}

// Save implements Writer.
func (JSON) Save(fs afero.Fs, path string, v interface{}) error {
	contents, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WithContext(err, "marshal json")
	}

	if err := afero.WriteFile(fs, path, contents, 0644); err != nil {
		return errors.WithContext(err, "write json file")
	}
	return nil
}

// Load implements Codec. Objects come back as map[string]interface{}.
func (JSON) Load(fs afero.Fs, path string) (interface{}, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WithContext(err, "read json file")
	}

	var v interface{}
	if err := json.Unmarshal(contents, &v); err != nil {
		return nil, errors.WithContext(err, "unmarshal json")
	}
	return v, nil
}
