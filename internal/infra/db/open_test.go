package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{in: "", want: DialectPostgres},
		{in: "postgres", want: DialectPostgres},
		{in: "pgx", want: DialectPostgres},
		{in: "sqlite", want: DialectSQLite},
		{in: "sqlite3", want: DialectSQLite},
		{in: "mysql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetConnectionConfigFromEnv_Defaults(t *testing.T) {
	_ = os.Unsetenv("DB_MAX_OPEN_CONNS")
	_ = os.Unsetenv("DB_MAX_IDLE_CONNS")
	_ = os.Unsetenv("DB_CONN_MAX_LIFETIME")
	_ = os.Unsetenv("DB_CONN_MAX_IDLE_TIME")

	assert.Equal(t, DefaultConnectionConfig(), getConnectionConfigFromEnv())
}

func TestGetConnectionConfigFromEnv_Overrides(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		expect func(t *testing.T, cfg ConnectionConfig)
	}{
		{
			name: "max open conns", key: "DB_MAX_OPEN_CONNS", value: "50",
			expect: func(t *testing.T, cfg ConnectionConfig) { assert.Equal(t, 50, cfg.MaxOpenConns) },
		},
		{
			name: "max open conns negative keeps default", key: "DB_MAX_OPEN_CONNS", value: "-10",
			expect: func(t *testing.T, cfg ConnectionConfig) { assert.Equal(t, 10, cfg.MaxOpenConns) },
		},
		{
			name: "max idle conns non-numeric keeps default", key: "DB_MAX_IDLE_CONNS", value: "abc",
			expect: func(t *testing.T, cfg ConnectionConfig) { assert.Equal(t, 5, cfg.MaxIdleConns) },
		},
		{
			name: "lifetime", key: "DB_CONN_MAX_LIFETIME", value: "1h30m",
			expect: func(t *testing.T, cfg ConnectionConfig) { assert.Equal(t, 90*time.Minute, cfg.ConnMaxLifetime) },
		},
		{
			name: "idle time zero keeps default", key: "DB_CONN_MAX_IDLE_TIME", value: "0s",
			expect: func(t *testing.T, cfg ConnectionConfig) { assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			tt.expect(t, getConnectionConfigFromEnv())
		})
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), DialectPostgres, "")
	assert.Error(t, err)
}

func TestOpen_SQLiteMemory(t *testing.T) {
	db, err := Open(context.Background(), DialectSQLite, ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}
