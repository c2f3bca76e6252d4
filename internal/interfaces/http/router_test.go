package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/Accesos-api/internal/application/analytics"
	"github.com/jhoicas/Accesos-api/internal/application/approval"
	"github.com/jhoicas/Accesos-api/internal/application/auth"
	"github.com/jhoicas/Accesos-api/internal/application/dto"
	"github.com/jhoicas/Accesos-api/internal/application/report"
	"github.com/jhoicas/Accesos-api/internal/application/usecase"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/archive"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/excel"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Accesos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/seed"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/xmlrecord"
	apphttp "github.com/jhoicas/Accesos-api/internal/interfaces/http"
	"github.com/jhoicas/Accesos-api/pkg/logger"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// newAPI arma la API completa sobre el store en memoria con los datos de ejemplo.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	now := time.Date(2024, 1, 16, 9, 0, 0, 0, time.Local)
	users, err := seed.Users(seed.DefaultPassword, bcrypt.MinCost, now)
	require.NoError(t, err)
	store := memory.NewStore()
	store.Load(users, seed.Requests(now))

	requestRepo, userRepo := store.Requests(), store.Users()
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(userRepo, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		UserUC:    usecase.NewUserUseCase(userRepo),
		CatalogUC: usecase.NewCatalogUseCase(),
		ApprovalUC: approval.NewUseCase(
			memory.NewTxRunner(store), requestRepo, userRepo,
			approval.Config{MailDomain: "empresa.com"}, logger.Nop(),
		),
		ReportUC: report.NewUseCase(
			requestRepo, userRepo,
			infrapdf.NewMarotoPDFGenerator("Empresa"), xmlrecord.NewBuilder(), excel.NewExporter(),
			archive.NewZipBuilder(),
		),
		DashboardUC: appanalytics.NewDashboardUseCase(requestRepo, userRepo),
		JWTSecret:   testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: seed.DefaultPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.LoginResponse](t, resp).Token
}

func createDetails() entity.RequestDetails {
	return entity.RequestDetails{
		EmployeeCode:  "5120",
		FullName:      "Ana María",
		Department:    "Contabilidad",
		Branches:      []string{"Sucursal Central"},
		RequestType:   "acceso-sistemas",
		Justification: "Ingreso",
		RequiredDate:  "2024-01-30",
	}
}

const (
	emailRequester = "juan.perez@empresa.com"
	emailHR        = "maria.garcia@empresa.com"
	emailHRManager = "carlos.lopez@empresa.com"
	emailIT        = "ana.martinez@empresa.com"
	emailITManager = "luis.rodriguez@empresa.com"
)

// ─── Auth ─────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesInvalidas(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: emailHR, Password: "otra"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: emailHR})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_DevuelveUsuario(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: emailIT, Password: seed.DefaultPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "4", out.User.ID)
	assert.Equal(t, "it", out.User.Role)
}

func TestRutasProtegidas_SinToken(t *testing.T) {
	app := newAPI(t)
	for _, path := range []string{"/api/me", "/api/requests", "/api/dashboard/stats", "/api/catalogs"} {
		resp := call(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestRequestLogger_PropagaRequestID(t *testing.T) {
	app := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(apphttp.HeaderRequestID, "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(apphttp.HeaderRequestID))

	resp = call(t, app, http.MethodGet, "/api/me", "", nil)
	assert.Len(t, resp.Header.Get(apphttp.HeaderRequestID), 36, "uuid generado")
}

// ─── Perfil y catálogos ───────────────────────────────────────────────────────

func TestPerfil_ActualizarYFirma(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, emailHR)

	resp := call(t, app, http.MethodPut, "/api/me", tok, dto.UpdateProfileRequest{Phone: "+57 300"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "+57 300", user.Phone)
	assert.Equal(t, "María García", user.Name)
	assert.False(t, user.HasSignature)

	resp = call(t, app, http.MethodPut, "/api/me/signature", tok, dto.UpdateSignatureRequest{Signature: "no-es-imagen"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/me/signature", tok, dto.UpdateSignatureRequest{Signature: seed.PixelSignature})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.UserResponse](t, resp).HasSignature)

	resp = call(t, app, http.MethodGet, "/api/me/signature", tok, nil)
	assert.Equal(t, seed.PixelSignature, decode[dto.SignatureResponse](t, resp).Signature)
}

func TestCatalogos(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/catalogs", login(t, app, emailRequester), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.CatalogsResponse](t, resp)
	assert.Len(t, out.Branches, 8)
	assert.Len(t, out.Statuses, 7)
}

// ─── Flujo de solicitudes ─────────────────────────────────────────────────────

func TestFlujoCompletoPorHTTP(t *testing.T) {
	app := newAPI(t)
	requester := login(t, app, emailRequester)

	resp := call(t, app, http.MethodPost, "/api/requests", requester, dto.CreateAccessRequest{
		Details:   createDetails(),
		Signature: seed.PixelSignature,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.AccessRequestResponse](t, resp)
	assert.Equal(t, "REQ-002", created.ID)
	assert.Equal(t, "pending-hr", created.Status)
	id := created.ID

	for _, email := range []string{emailHR, emailHRManager, emailIT, emailITManager} {
		resp = call(t, app, http.MethodPost, "/api/requests/"+id+"/approve", login(t, app, email),
			dto.ApproveRequest{Signature: seed.PixelSignature, Comments: "ok"})
		require.Equal(t, http.StatusOK, resp.StatusCode, email)
		resp.Body.Close()
	}

	it := login(t, app, emailIT)
	resp = call(t, app, http.MethodGet, "/api/requests/"+id+"/actions", it, nil)
	actions := decode[dto.ActionsResponse](t, resp)
	assert.Equal(t, []string{"complete"}, actions.Actions)
	require.NotNil(t, actions.SuggestedCredentials)

	resp = call(t, app, http.MethodPost, "/api/requests/"+id+"/complete", it, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decode[dto.TransitionResponse](t, resp)
	assert.Equal(t, "completed", done.To)
	require.NotNil(t, done.Request.Credentials)
	assert.Equal(t, "ana.maria@empresa.com", done.Request.Credentials.Email)

	resp = call(t, app, http.MethodPost, "/api/requests/"+id+"/reject", login(t, app, emailHR), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "TH ya no puede actuar sobre una completada")

	resp = call(t, app, http.MethodGet, "/api/dashboard/stats", requester, nil)
	stats := decode[dto.DashboardStatsDTO](t, resp)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, "50", stats.CompletionRate.String())
}

func TestAprobar_SinFirmaYSinFirmaAlmacenada(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodPost, "/api/requests/REQ-001/approve", login(t, app, emailHR), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_SIGNATURE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAprobar_ComentarioExcedeLimite(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, emailHR)
	resp := call(t, app, http.MethodPost, "/api/requests/REQ-001/approve", tok,
		dto.ApproveRequest{Signature: seed.PixelSignature, Comments: strings.Repeat("x", 5000)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodGet, "/api/requests/REQ-001", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending-hr", decode[dto.AccessRequestResponse](t, resp).Status, "la solicitud no cambia")
}

func TestLogin_EmailMalFormado(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "maria.garcia", Password: seed.DefaultPassword})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAprobar_RolEquivocadoYEstadoEquivocado(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodPost, "/api/requests/REQ-001/approve", login(t, app, emailIT),
		dto.ApproveRequest{Signature: seed.PixelSignature})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "TI aprueba, pero no en pending-hr")
	assert.Equal(t, "INVALID_TRANSITION", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPost, "/api/requests/REQ-001/approve", login(t, app, emailRequester),
		dto.ApproveRequest{Signature: seed.PixelSignature})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el solicitante nunca aprueba")
}

func TestSolicitud_NoExisteYFueraDeAlcance(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/requests/REQ-999", login(t, app, emailHR), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/requests/REQ-001", login(t, app, emailIT), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "TI no ve solicitudes que TH no ha aprobado")
}

func TestListar_FiltroDesconocidoDaListadoVacio(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, emailHR)
	resp := call(t, app, http.MethodGet, "/api/requests?status=archivada", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, decode[dto.AccessRequestListResponse](t, resp).Total)

	resp = call(t, app, http.MethodGet, "/api/requests?status=pending-hr", tok, nil)
	list := decode[dto.AccessRequestListResponse](t, resp)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, []string{"approve", "reject"}, list.Items[0].Actions)
}

func TestBacklog_SoloAprobadores(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/dashboard/backlog", login(t, app, emailRequester), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/dashboard/backlog", login(t, app, emailHRManager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	backlog := decode[[]dto.BacklogEntryDTO](t, resp)
	require.NotEmpty(t, backlog)
	assert.Equal(t, "pending-hr", backlog[0].Status)
	assert.Equal(t, 1, backlog[0].Waiting)
}

// ─── Reportes ─────────────────────────────────────────────────────────────────

func TestReportes_Descargas(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, emailRequester)

	resp := call(t, app, http.MethodGet, "/api/requests/REQ-001/pdf", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	b, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))

	resp = call(t, app, http.MethodGet, "/api/requests/REQ-001/xml", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "acta-REQ-001.xml")

	resp = call(t, app, http.MethodGet, "/api/requests/REQ-001/bundle", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))

	resp = call(t, app, http.MethodGet, "/api/requests/export?status=all", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}
