package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/s25commerce/pricing-api/pkg/logger"
)

func TestNew_NivelExplicito(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "pricing-api"})
	assert.Equal(t, zerolog.WarnLevel, l.Zerolog().GetLevel())
}

func TestNew_NivelDesconocidoCaeAInfo(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "no-existe"})
	assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())
}

func TestNew_NivelVacioCaeAInfo(t *testing.T) {
	l := logger.New(logger.Config{Env: "production"})
	assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())
}
