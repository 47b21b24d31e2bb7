package logging

import (
	"bytes"
	"testing"

	"github.com/illarion/seedlock/internal/keystore"
	"github.com/stretchr/testify/require"
)

func TestValidLevel(t *testing.T) {
	for _, level := range []string{"", "off", "trace", "debug", "info", "warn", "error", "critical", "DEBUG"} {
		require.True(t, ValidLevel(level), level)
	}
	require.False(t, ValidLevel("verbose"))
}

func TestSetupWritesSubsystemLogs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup("debug", &buf))
	t.Cleanup(func() { _ = Setup(LevelOff, nil) })

	codec := keystore.NewCodec(keystore.WithIterations(1))
	_, err := codec.Encode([]byte("seed"), []byte("pass"), "")
	require.NoError(t, err)

	require.Contains(t, buf.String(), keystore.Subsystem)
	require.NotContains(t, buf.String(), "pass")
}

func TestSetupOff(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(LevelOff, &buf))

	codec := keystore.NewCodec(keystore.WithIterations(1))
	_, err := codec.Encode([]byte("seed"), []byte("pass"), "")
	require.NoError(t, err)

	require.Empty(t, buf.String())
}

func TestSetupUnknownLevel(t *testing.T) {
	require.Error(t, Setup("loud", &bytes.Buffer{}))
}
