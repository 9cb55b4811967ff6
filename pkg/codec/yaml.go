package codec

import (
	"github.com/ghodss/yaml"
	"github.com/spf13/afero"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// YAML round-trips values through ghodss/yaml.
type YAML struct{}

// Save implements Writer.
func (YAML) Save(fs afero.Fs, path string, v interface{}) error {
	contents, err := yaml.Marshal(v)
	if err != nil {
		return errors.WithContext(err, "marshal yaml")
	}

	if err := afero.WriteFile(fs, path, contents, 0644); err != nil {
		return errors.WithContext(err, "write yaml file")
	}
	return nil
}

// Load implements Codec. Mappings come back as map[string]interface{}.
func (YAML) Load(fs afero.Fs, path string) (interface{}, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WithContext(err, "read yaml file")
	}

	var v interface{}
	if err := yaml.Unmarshal(contents, &v); err != nil {
		return nil, errors.WithContext(err, "unmarshal yaml")
	}
	return v, nil
}
