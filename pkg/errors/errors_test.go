package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCause(t *testing.T) {
	base := New("base")
	wrapped := WithContext(WithContext(base, "inner"), "outer")

	assert.Equal(t, base, RootCause(wrapped))
	assert.Equal(t, base, RootCause(base))
	assert.Equal(t, "outer: inner: base", wrapped.Error())
}

func TestGetPrintableMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		exp  string
	}{
		{
			name: "Friendly",
			err:  NewFriendlyError("something went wrong"),
			exp:  "something went wrong",
		},
		{
			name: "WrappedFriendly",
			err:  WithContext(NewFriendlyError("something went wrong"), "sync"),
			exp:  "something went wrong",
		},
		{
			name: "Plain",
			err:  WithContext(New("boom"), "copy"),
			exp:  "copy: boom",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, GetPrintableMessage(test.err))
		})
	}
}

func TestConfirmationRequired(t *testing.T) {
	err := ConfirmationRequired{
		Reason:       "sync would delete files on the fileserver",
		DryRunOutput: []byte("deleting foo.txt"),
	}
	assert.Contains(t, err.Error(), "deleting foo.txt")
	assert.Contains(t, GetPrintableMessage(err), "deleting foo.txt")
}
