package params_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/status-im/walletconnect-core/params"
)

func TestNewConfigDefaults(t *testing.T) {
	c := params.NewConfig("")
	require.NoError(t, c.Validate())
	require.Equal(t, uint64(params.DefaultChainID), c.DefaultChainID)
	require.Equal(t, params.StorageBackendMemory, c.StorageBackend)
	require.Equal(t, "", c.DatabasePath())
	require.Equal(t, 5*time.Minute, c.SigningTimeoutDuration())
	require.Equal(t, 10*time.Minute, c.DedupeWindowDuration())

	c = params.NewConfig("/tmp/wc")
	require.Equal(t, params.StorageBackendLevelDB, c.StorageBackend)
	require.Equal(t, filepath.Join("/tmp/wc", params.DefaultDatabaseName), c.DatabasePath())
}

func TestNewConfigFromJSON(t *testing.T) {
	testCases := []struct {
		name     string
		dataDir  string
		json     string
		wantErr  bool
		validate func(t *testing.T, c *params.Config)
	}{
		{
			name:    "override chain",
			json:    `{"DefaultChainID": 10, "SigningTimeout": 0}`,
			wantErr: false,
			validate: func(t *testing.T, c *params.Config) {
				require.Equal(t, uint64(10), c.DefaultChainID)
				require.Equal(t, time.Duration(0), c.SigningTimeoutDuration())
				require.Equal(t, params.DefaultSessionsKey, c.SessionsKey)
			},
		},
		{
			name:    "zero chain",
			json:    `{"DefaultChainID": 0}`,
			wantErr: true,
		},
		{
			name:    "empty sessions key",
			json:    `{"SessionsKey": ""}`,
			wantErr: true,
		},
		{
			name:    "unknown backend",
			json:    `{"StorageBackend": "redis"}`,
			wantErr: true,
		},
		{
			name:    "leveldb without data dir",
			json:    `{"StorageBackend": "leveldb"}`,
			wantErr: true,
		},
		{
			name:    "sqlite without password",
			dataDir: "/tmp/wc",
			json:    `{"StorageBackend": "sqlite"}`,
			wantErr: true,
		},
		{
			name:    "sqlite with password",
			dataDir: "/tmp/wc",
			json:    `{"StorageBackend": "sqlite", "DatabasePassword": "secret"}`,
			wantErr: false,
		},
		{
			name:    "bad log level",
			json:    `{"LogSettings": {"Level": "LOUD"}}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			json:    `{"DefaultChainID": }`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := params.NewConfigFromJSON(tc.dataDir, tc.json)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tc.validate != nil {
				tc.validate(t, c)
			}
		})
	}
}

func TestSaveAndLoadConfigFromFiles(t *testing.T) {
	dir := t.TempDir()

	c := params.NewConfig(dir)
	c.DefaultChainID = 5
	c.DedupeWindow = 30
	require.NoError(t, c.Save())

	loaded, err := params.LoadConfigFromFiles(dir, filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	require.Equal(t, c, loaded)

	_, err = params.LoadConfigFromFiles(dir, filepath.Join(dir, "missing.json"))
	require.True(t, os.IsNotExist(err))
}
