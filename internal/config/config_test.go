package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromArgs(t *testing.T) {
	cfg, err := FromArgs([]string{"6667", "secret"})
	require.NoError(t, err)
	assert.Equal(t, "6667", cfg.Port)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, ":6667", cfg.Addr())
}

func TestFromArgsEmptyPassword(t *testing.T) {
	// An empty password is valid, but only when passed explicitly.
	cfg, err := FromArgs([]string{"6667", ""})
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Password)
}

func TestFromArgsWrongCount(t *testing.T) {
	_, err := FromArgs(nil)
	assert.Error(t, err)

	_, err = FromArgs([]string{"6667"})
	assert.Error(t, err)

	_, err = FromArgs([]string{"6667", "secret", "extra"})
	assert.Error(t, err)
}

func TestFromArgsInvalidPort(t *testing.T) {
	for _, port := range []string{"notaport", "0", "-1", "65536", ""} {
		_, err := FromArgs([]string{port, "secret"})
		assert.Error(t, err, "port %q should be rejected", port)
	}
}
