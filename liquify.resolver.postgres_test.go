package liquify

import (
	"testing"
	"time"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPostgresConfig(t *testing.T) {
	config := DefaultPostgresConfig()

	assert.Equal(t, PostgresDefaultMaxOpenConns, config.MaxOpenConns)
	assert.Equal(t, PostgresDefaultMaxIdleConns, config.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, config.ConnMaxLifetime)
	assert.Equal(t, 5*time.Minute, config.ConnMaxIdleTime)
	assert.Equal(t, PostgresDefaultTableName, config.TableName)
	assert.Equal(t, 30*time.Second, config.QueryTimeout)
	assert.False(t, config.AutoMigrate)
}

func TestNewPostgresResolver_EmptyConnectionString(t *testing.T) {
	_, err := NewPostgresResolver(PostgresConfig{})
	require.Error(t, err)

	var customErr *cuserr.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Contains(t, err.Error(), ErrMsgPostgresEmptyConnString)
}

func TestPostgresResolver_StatementSubstitution(t *testing.T) {
	r := &PostgresResolver{config: PostgresConfig{TableName: "custom_partials"}}

	stmt := r.stmt(postgresSelectStmt)
	assert.Contains(t, stmt, "custom_partials")
	assert.NotContains(t, stmt, postgresTableToken)
}
