package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8081
  env: production
database:
  driver: sqlite
  url: "file::memory:"
jwt:
  secret: from-file
email:
  provider: mock
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.True(t, cfg.IsProduction())
	// значения по умолчанию сохраняются
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxCVSize)
	assert.Equal(t, "0 * * * *", cfg.Workers.PositionCloseSchedule)
}

func TestLoadEnvOnlyWhenFileMissing(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://hr@localhost/hr")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Database.Driver = "oracle"
	cfg.Email.Provider = "mailjet"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "database.url is required")
	assert.Contains(t, msg, `unsupported database.driver "oracle"`)
	assert.Contains(t, msg, "jwt.secret is required")
	assert.Contains(t, msg, "api_secret are required")
	assert.Contains(t, msg, "email.from_email is required")
}

func TestUploadPolicyAllows(t *testing.T) {
	cfg := Defaults()
	policy := cfg.CVPolicy()

	assert.True(t, policy.Allows("application/pdf"))
	assert.False(t, policy.Allows("image/png"))
	assert.Equal(t, "cv", policy.Prefix)
}
