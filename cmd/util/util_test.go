package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPrinter(t *testing.T) {
	out := bytes.NewBuffer(nil)
	pp := NewProgressPrinter(out, "Copying")

	go pp.Run()
	pp.Stop()

	assert.Contains(t, out.String(), "Copying")
	assert.Contains(t, out.String(), "\n")
}
