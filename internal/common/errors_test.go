package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	cause := errors.New("row missing")

	err := Wrap(ErrorNotFound, cause)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrorNotFound)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrorValidation)
	assert.Equal(t, "not found: row missing", err.Error())

	assert.NoError(t, Wrap(ErrorInternal, nil))
}
