package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Accesos-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.Seed)
	assert.Equal(t, "empresa.com", cfg.Workflow.MailDomain)
	assert.Empty(t, cfg.Reminder.Schedule, "recordatorio deshabilitado por defecto")
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("MAIL_DOMAIN", "clinica.co")
	t.Setenv("REMINDER_SCHEDULE", "0 8 * * 1-5")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "clinica.co", cfg.Workflow.MailDomain)
	assert.Equal(t, "0 8 * * 1-5", cfg.Reminder.Schedule)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ProduccionSinSecreto(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/w", DBName: "accesos", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fw@db:5432/accesos?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestLoad_LimitesDelPool(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "5")
	_, err := config.Load()
	assert.Error(t, err)
}
