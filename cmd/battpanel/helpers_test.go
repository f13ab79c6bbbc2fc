package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntArg(t *testing.T) {
	n, err := parseIntArg([]string{"12"}, "count")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = parseIntArg(nil, "count")
	assert.Error(t, err)

	_, err = parseIntArg([]string{"1", "2"}, "count")
	assert.Error(t, err)

	_, err = parseIntArg([]string{"twelve"}, "count")
	assert.ErrorContains(t, err, "invalid count")
}

func TestCommandTree(t *testing.T) {
	cmd := NewCommand()

	for _, name := range []string{"serve", "status", "watch", "tray", "processes", "color", "config", "version"} {
		c, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}

	status, _, err := cmd.Find([]string{"status"})
	require.NoError(t, err)
	assert.True(t, needsDaemon(status))

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.False(t, needsDaemon(serve))
}
