package mongo

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURI(t *testing.T) {
	tests := []struct {
		name     string
		conf     Config
		expected string
	}{
		{
			name:     "connection string wins",
			conf:     Config{ConnectionString: "mongodb://custom:27017/db", Host: "ignored", Port: 1},
			expected: "mongodb://custom:27017/db",
		},
		{
			name:     "host and port",
			conf:     Config{Host: "localhost", Port: 27017, Database: "catalogue"},
			expected: "mongodb://localhost:27017/catalogue",
		},
		{
			name:     "with credentials",
			conf:     Config{Host: "db", Port: 27017, Database: "catalogue", Username: "user", Password: "pass"},
			expected: "mongodb://user:pass@db:27017/catalogue",
		},
		{
			name:     "replica set and direct connection",
			conf:     Config{Host: "db", Port: 27017, Database: "catalogue", ReplicaSet: "rs0", DirectConnection: true},
			expected: "mongodb://db:27017/catalogue?replicaSet=rs0&directConnection=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildURI(tt.conf))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		conf    Config
		wantErr bool
	}{
		{name: "connection string", conf: Config{ConnectionString: "mongodb://x", Database: "db"}},
		{name: "host and port", conf: Config{Host: "h", Port: 1, Database: "db"}},
		{name: "missing database", conf: Config{ConnectionString: "mongodb://x"}, wantErr: true},
		{name: "missing port", conf: Config{Host: "h", Database: "db"}, wantErr: true},
		{name: "negative bulkhead", conf: Config{ConnectionString: "mongodb://x", Database: "db", BulkheadLimit: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		v := viper.New()
		v.Set("mongo.host", "localhost")
		v.Set("mongo.port", 27017)
		v.Set("mongo.database", "catalogue")
		v.Set("mongo.bulkhead-limit", 8)

		cfg, err := newConfig(v)

		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, uint64(100), cfg.MaxPoolSize)
		assert.Equal(t, uint64(10), cfg.MinPoolSize)
		assert.Equal(t, 30*time.Second, cfg.QueryTimeout)
		assert.Equal(t, 8, cfg.BulkheadLimit)
		assert.Equal(t, 5*time.Second, cfg.BulkheadTimeout)
		assert.False(t, cfg.Transactions)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		v := viper.New()
		v.Set("mongo.connection-string", "mongodb://db:27017")
		v.Set("mongo.database", "catalogue")
		v.Set("mongo.query-timeout", "2s")
		v.Set("mongo.transactions", true)

		cfg, err := newConfig(v)

		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, cfg.QueryTimeout)
		assert.True(t, cfg.Transactions)
		assert.Zero(t, cfg.BulkheadTimeout)
	})

	t.Run("missing section", func(t *testing.T) {
		_, err := newConfig(viper.New())
		assert.Error(t, err)
	})
}
