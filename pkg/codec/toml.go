package codec

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// TOML round-trips values through BurntSushi/toml.
type TOML struct{}

// Save implements Writer.
func (TOML) Save(fs afero.Fs, path string, v interface{}) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return errors.WithContext(err, "marshal toml")
	}

	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return errors.WithContext(err, "write toml file")
	}
	return nil
}

// Load implements Codec. Documents come back as map[string]interface{}.
func (TOML) Load(fs afero.Fs, path string) (interface{}, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WithContext(err, "read toml file")
	}

	var v map[string]interface{}
	if err := toml.Unmarshal(contents, &v); err != nil {
		return nil, errors.WithContext(err, "unmarshal toml")
	}
	return v, nil
}
