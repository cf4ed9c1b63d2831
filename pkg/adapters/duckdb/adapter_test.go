package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/milgrid/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name      string
		setupPath func(t *testing.T) string
		verify    func(t *testing.T, path string)
	}{
		{
			name: "in-memory",
			setupPath: func(_ *testing.T) string {
				return ":memory:"
			},
		},
		{
			name: "file-based",
			setupPath: func(t *testing.T) string {
				tmpDir := t.TempDir()
				return filepath.Join(tmpDir, "test.duckdb")
			},
			verify: func(t *testing.T, path string) {
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "database file was not created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			dbPath := tt.setupPath(t)
			require.NoError(t, adp.Connect(ctx, adapter.Config{Path: dbPath}))
			defer func() { _ = adp.Close() }()

			assert.Equal(t, "duckdb", adp.Type())

			if tt.verify != nil {
				tt.verify(t, dbPath)
			}
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, adp *Adapter) error
	}{
		{
			name: "exec without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				return adp.Exec(ctx, "SELECT 1")
			},
		},
		{
			name: "query without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Query(ctx, "SELECT 1")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			err := tt.operation(ctx, adp)
			assert.Error(t, err, "expected error when operating without connection")
		})
	}
}

func TestAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		connect bool
	}{
		{"close without connect", false},
		{"close after connect", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			if tt.connect {
				require.NoError(t, adp.Connect(ctx, adapter.Config{Path: ":memory:"}))
			}

			assert.NoError(t, adp.Close())
		})
	}
}

func TestAdapter_QueryExecution(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	require.NoError(t, adp.Exec(ctx, `
		CREATE TABLE personnel (
			Person_Instance_ID INTEGER,
			En_Name VARCHAR,
			Ar_Military VARCHAR
		)
	`))
	require.NoError(t, adp.Exec(ctx, `
		INSERT INTO personnel VALUES
			(1, 'alice', 'مؤجل'),
			(2, 'bob', ''),
			(3, 'charlie', 'معفى')
	`))

	rows, err := adp.Query(ctx, `SELECT COUNT(*) FROM personnel WHERE Ar_Military = ?`, "مؤجل")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var count int
	require.True(t, rows.Next())
	require.NoError(t, rows.Scan(&count))
	assert.Equal(t, 1, count)
}

func TestAdapter_Registry(t *testing.T) {
	assert.True(t, adapter.IsRegistered("duckdb"), "duckdb adapter should be registered")

	factory, ok := adapter.Get("duckdb")
	require.True(t, ok, "should be able to get duckdb factory")

	adp := factory(nil)
	require.NotNil(t, adp)
	assert.Equal(t, "duckdb", adp.Type())
}

func TestConnect_WithParams(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	cfg := adapter.Config{
		Path: ":memory:",
		Params: map[string]any{
			"extensions": []any{"json"},
			"settings": map[string]any{
				"threads": "2",
			},
		},
	}

	err := adp.Connect(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = adp.Close() }()

	// Verify extension loaded by checking it's in the loaded extensions list
	rows, err := adp.Query(ctx, "SELECT extension_name FROM duckdb_extensions() WHERE loaded = true AND extension_name = 'json'")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next(), "json extension should be loaded")

	var extName string
	require.NoError(t, rows.Scan(&extName))
	assert.Equal(t, "json", extName)
}

func TestConnect_WithSettings(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	cfg := adapter.Config{
		Path: ":memory:",
		Params: map[string]any{
			"settings": map[string]any{
				"threads": "2",
			},
		},
	}

	err := adp.Connect(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = adp.Close() }()

	// Verify setting was applied
	rows, err := adp.Query(ctx, "SELECT current_setting('threads')")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next())

	var threadsSetting string
	require.NoError(t, rows.Scan(&threadsSetting))
	assert.Equal(t, "2", threadsSetting)
}

func TestConnect_WithNilParams(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	cfg := adapter.Config{
		Path:   ":memory:",
		Params: nil,
	}

	err := adp.Connect(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = adp.Close() }()

	rows, err := adp.Query(ctx, "SELECT 1")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
}

func TestConnect_WithBadParams(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	cfg := adapter.Config{
		Path: ":memory:",
		Params: map[string]any{
			"extensions": map[string]any{"not": "a list"},
		},
	}

	err := adp.Connect(ctx, cfg)
	require.Error(t, err)
	assert.False(t, adp.IsConnected(), "connection should be torn down on bad params")
}
