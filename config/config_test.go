package config

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("DB_USER", "billing")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "billing")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 4*1024*1024, cfg.BodyLimit())
	assert.Equal(t, 60, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.True(t, cfg.ShowTax)
	assert.True(t, cfg.ShowGST)
	assert.True(t, cfg.CalculatorPolicy().RoundOffClearsAdjustment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "host=db user=billing password=pw dbname=billing port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("BODY_LIMIT_BYTES", "1024")
	t.Setenv("ROUND_OFF_CLEARS_ADJUSTMENT", "false")
	t.Setenv("INVOICE_SHOW_GST", "false")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "billing.db", cfg.DSN())
	assert.Equal(t, 1024, cfg.BodyLimit())
	assert.False(t, cfg.CalculatorPolicy().RoundOffClearsAdjustment)
	assert.False(t, cfg.ShowGST)
	assert.True(t, cfg.IsProduction())

	t.Setenv("DB_DSN", "file:test.db")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "file:test.db", cfg.DSN())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "s3cret")
		t.Setenv("DB_DRIVER", "oracle")
		_, err := Load()
		assert.ErrorContains(t, err, "oracle")
	})
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	LogError(logger, "invoices", "CreateInvoice", "save", map[string]int{"id": 7}, errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"module":"invoices"`)
	assert.Contains(t, out, `"funcName":"CreateInvoice"`)
	assert.Contains(t, out, `"msg":"boom"`)
	assert.Contains(t, out, `"data":{"id":7}`)
}

func TestSetLogLevel(t *testing.T) {
	defer SetLogLevel("info")

	SetLogLevel("debug")
	assert.Equal(t, logrus.DebugLevel, GetLogger().GetLevel())

	SetLogLevel("loud")
	assert.Equal(t, logrus.DebugLevel, GetLogger().GetLevel())
}
