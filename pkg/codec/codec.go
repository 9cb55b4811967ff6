// Package codec contains the format adapters used to read and write
// staged files. Each format is one small type satisfying Codec, so
// callers pass a concrete adapter instead of an arbitrary save function.
// All adapters go through afero so they work against in-memory
// filesystems in tests.
package codec

import (
	"github.com/spf13/afero"
)

// Writer saves a value to a file.
type Writer interface {
	Save(fs afero.Fs, path string, v interface{}) error
}

// Codec can both save values and load them back.
type Codec interface {
	Writer
	Load(fs afero.Fs, path string) (interface{}, error)
}
