package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Accesos-api/internal/application/dto"
	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/pkg/logger"
)

func TestWriteError_CausaDel500QuedaEnElLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})

	app := fiber.New()
	app.Use(RequestLogger(log))
	app.Get("/falla", func(c *fiber.Ctx) error {
		return writeError(c, fmt.Errorf("listar solicitudes: %w", errors.New("pool agotado: conexión rechazada")))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/falla", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, "pool agotado: conexión rechazada")
}

func TestWriteError_CausaNoLlegaAlCliente(t *testing.T) {
	app := fiber.New()
	app.Get("/falla", func(c *fiber.Ctx) error {
		return writeError(c, errors.New("dsn con password secreto"))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/falla", nil), -1)
	require.NoError(t, err)
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(resp.Body)
	assert.NotContains(t, body.String(), "secreto")
	assert.Contains(t, body.String(), "INTERNAL")
}

func TestWriteError_ErroresDeDominioNoSeMarcanComoCausa(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})
	app := fiber.New()
	app.Use(RequestLogger(log))
	app.Get("/conflicto", func(c *fiber.Ctx) error {
		return writeError(c, domain.ErrInvalidTransition)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/conflicto", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.NotContains(t, buf.String(), `"error":`)
}

func TestValidateBody_ComentarioDemasiadoLargo(t *testing.T) {
	err := validateBody(dto.ApproveRequest{Comments: strings.Repeat("a", 2001)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "comments")

	assert.NoError(t, validateBody(dto.ApproveRequest{Comments: strings.Repeat("ñ", 2000)}), "cuenta runas, no bytes")
	assert.NoError(t, validateBody(dto.ApproveRequest{}))
}

func TestValidateBody_LoginYCredenciales(t *testing.T) {
	err := validateBody(dto.LoginRequest{Email: "no-es-email", Password: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "email")

	err = validateBody(dto.LoginRequest{Email: "a@b.co"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "password es obligatorio")

	assert.ErrorIs(t, validateBody(dto.CompleteRequest{Email: "sin-arroba"}), domain.ErrInvalidInput)
	assert.NoError(t, validateBody(dto.CompleteRequest{}))
	assert.ErrorIs(t, validateBody(dto.UpdateSignatureRequest{Signature: "texto"}), domain.ErrInvalidInput)
}
