package config

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderDefaults(t *testing.T) {
	require := require.New(t)

	custom := Default()
	require.Equal(":5000", custom.Network.Listener)
	require.Equal("tcp", custom.Network.Transport)
	require.Equal(false, custom.Network.Metric)
	require.Equal(2, custom.Log.Level)
	require.Equal(0, custom.RPC.Port)

	file := path.Join(t.TempDir(), "versus.toml")
	err := os.WriteFile(file, []byte("[network]\ntransport = \"quic\"\n"), 0644)
	require.Nil(err)
	custom, err = Initialize(file)
	require.Nil(err)
	require.Equal(":5000", custom.Network.Listener)
	require.Equal("quic", custom.Network.Transport)

	_, err = Initialize(path.Join(t.TempDir(), "missing.toml"))
	require.NotNil(err)

	err = os.WriteFile(file, []byte("not = [valid"), 0644)
	require.Nil(err)
	_, err = Initialize(file)
	require.NotNil(err)
}
