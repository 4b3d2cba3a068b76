package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ChronoSpace", cfg.ProjectName)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.False(t, cfg.Testing)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 120, cfg.RateLimit.Requests)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CHRONOSPACE_PROJECT_NAME", "Timeline")
	t.Setenv("CHRONOSPACE_API_PREFIX", "/api/v2")
	t.Setenv("CHRONOSPACE_SERVER__PORT", "9000")
	t.Setenv("CHRONOSPACE_DATABASE__HOST", "db.internal:3307")
	t.Setenv("CHRONOSPACE_DATABASE__AUTO_MIGRATE", "false")
	t.Setenv("CHRONOSPACE_RATE_LIMIT__WINDOW", "30s")
	t.Setenv("CHRONOSPACE_REDIS__URL", "redis://cache:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Timeline", cfg.ProjectName)
	assert.Equal(t, "/api/v2", cfg.APIPrefix)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "db.internal:3307", cfg.Database.Host)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_TestingUsesInMemorySQLite(t *testing.T) {
	t.Setenv("CHRONOSPACE_TESTING", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN(), "mode=memory")
	assert.Contains(t, cfg.Database.DSN(), "_foreign_keys=on")
}

func TestLoad_TestingKeepsExplicitURL(t *testing.T) {
	t.Setenv("CHRONOSPACE_TESTING", "true")
	t.Setenv("CHRONOSPACE_DATABASE__URL", "file:custom.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file:custom.db", cfg.Database.DSN())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("CHRONOSPACE_DATABASE__DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsPrefixWithoutSlash(t *testing.T) {
	t.Setenv("CHRONOSPACE_API_PREFIX", "api")

	_, err := Load()
	require.Error(t, err)
}

func TestDSN_MySQLFromParts(t *testing.T) {
	d := Default().Database
	d.Host = "mariadb"
	d.User = "app"
	d.Password = "p@ss:word"

	dsn := d.DSN()
	assert.Contains(t, dsn, "app:p@ss:word@tcp(mariadb:3306)/chronospace")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestDSN_HostPortWins(t *testing.T) {
	d := Default().Database
	d.Host = "mariadb:3310"

	assert.Contains(t, d.DSN(), "tcp(mariadb:3310)")
}

func TestDSN_URLOverride(t *testing.T) {
	d := Default().Database
	d.URL = "user:pw@tcp(other:3306)/timeline?parseTime=true"

	assert.Equal(t, d.URL, d.DSN())
}

func TestDSN_SQLiteFile(t *testing.T) {
	d := Default().Database
	d.Driver = DriverSQLite

	assert.Equal(t, "file:chronospace.db?_foreign_keys=on&_busy_timeout=5000", d.DSN())
}
