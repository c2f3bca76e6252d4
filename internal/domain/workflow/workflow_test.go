package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/workflow"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2024, 1, 16, 15, 30, 0, 0, time.UTC)

func user(id string, role entity.Role, name string) *entity.User {
	return &entity.User{ID: id, Role: role, Name: name, Email: id + "@empresa.com"}
}

var (
	requester = user("1", entity.RoleRequester, "Juan Pérez")
	hrUser    = user("2", entity.RoleHR, "María García")
	hrMgmt    = user("3", entity.RoleHRManagement, "Carlos López")
	itUser    = user("4", entity.RoleIT, "Ana Martínez")
	itMgmt    = user("5", entity.RoleITManagement, "Luis Rodríguez")
)

func approverFor(status entity.Status) *entity.User {
	switch status {
	case entity.StatusPendingHR:
		return hrUser
	case entity.StatusPendingHRManagement:
		return hrMgmt
	case entity.StatusPendingIT, entity.StatusInImplementation:
		return itUser
	case entity.StatusPendingITManagement:
		return itMgmt
	}
	return nil
}

func newRequest(t *testing.T) *entity.AccessRequest {
	t.Helper()
	req, err := workflow.NewRequest("REQ-001", requester, entity.RequestDetails{
		EmployeeCode: "4493",
		FullName:     "Juan Pérez García",
		Priority:     entity.PriorityHigh,
	}, "sig-requester", testNow)
	require.NoError(t, err)
	return req
}

// advance aprueba la solicitud hasta alcanzar el estado indicado.
func advance(t *testing.T, req *entity.AccessRequest, target entity.Status) {
	t.Helper()
	for req.Status != target {
		actor := *approverFor(req.Status)
		_, err := workflow.Approve(req, &actor, workflow.ApproveInput{Signature: "sig-" + string(actor.Role)}, testNow)
		require.NoError(t, err, "avanzando desde %s", req.Status)
	}
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestNewRequest_EstadoInicialYFirmaSolicitante(t *testing.T) {
	req := newRequest(t)

	assert.Equal(t, entity.StatusPendingHR, req.Status)
	assert.Equal(t, "sig-requester", req.Signatures[entity.StageRequester])
	assert.Empty(t, req.Approvals)
	assert.Nil(t, req.Credentials)
	assert.Equal(t, "2024-01-16", req.CreatedDate)
	assert.NoError(t, workflow.CheckInvariants(req))
}

func TestNewRequest_SinFirma_MissingSignature(t *testing.T) {
	_, err := workflow.NewRequest("REQ-001", requester, entity.RequestDetails{EmployeeCode: "1", FullName: "X"}, "", testNow)
	assert.ErrorIs(t, err, domain.ErrMissingSignature)
}

func TestNewRequest_UsaFirmaAlmacenada(t *testing.T) {
	r := copyUser(requester)
	r.Signature = "stored"
	req, err := workflow.NewRequest("REQ-002", r, entity.RequestDetails{EmployeeCode: "1", FullName: "X"}, "", testNow)
	require.NoError(t, err)
	assert.Equal(t, "stored", req.Signatures[entity.StageRequester])
	assert.Equal(t, entity.PriorityMedium, req.Details.Priority, "prioridad por defecto")
}

func TestNewRequest_SoloSolicitante(t *testing.T) {
	_, err := workflow.NewRequest("REQ-001", hrUser, entity.RequestDetails{EmployeeCode: "1", FullName: "X"}, "sig", testNow)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewRequest_DatosObligatorios(t *testing.T) {
	_, err := workflow.NewRequest("REQ-001", requester, entity.RequestDetails{FullName: "X"}, "sig", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = workflow.NewRequest("REQ-001", requester, entity.RequestDetails{EmployeeCode: "1", FullName: "X", Priority: "urgente"}, "sig", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFormatRequestID(t *testing.T) {
	assert.Equal(t, "REQ-001", workflow.FormatRequestID(1))
	assert.Equal(t, "REQ-042", workflow.FormatRequestID(42))
	assert.Equal(t, "REQ-1000", workflow.FormatRequestID(1000))
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujos
// ──────────────────────────────────────────────────────────────────────────────

// TH aprueba con firma y comentario.
func TestApprove_TalentoHumanoAvanzaAGerenciaTH(t *testing.T) {
	req := newRequest(t)
	actor := copyUser(hrUser)

	out, err := workflow.Approve(req, actor, workflow.ApproveInput{Signature: "sig1", Comments: "ok"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPendingHRManagement, req.Status)
	assert.Equal(t, entity.Approval{Date: "2024-01-16", ApproverName: "María García", Comments: "ok"}, req.Approvals[entity.StageHR])
	assert.Equal(t, "sig1", req.Signatures[entity.StageHR])
	assert.Equal(t, entity.StatusPendingHR, out.From)
	assert.Equal(t, entity.StatusPendingHRManagement, out.To)
	assert.Equal(t, entity.StageHR, out.Stage)
}

// Gerencia TH no puede aprobar una solicitud en pending-it.
func TestApprove_GerenciaTHEnPendingIT_Rechazada(t *testing.T) {
	req := newRequest(t)
	advance(t, req, entity.StatusPendingIT)
	before := req.Clone()

	_, err := workflow.Approve(req, copyUser(hrMgmt), workflow.ApproveInput{Signature: "sig"}, testNow)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, before, req, "la solicitud no debe cambiar")
	assert.Len(t, req.Approvals, 2)
}

// Gerencia TI rechaza y se conservan las firmas previas.
func TestReject_GerenciaTIConservaFirmasPrevias(t *testing.T) {
	req := newRequest(t)
	advance(t, req, entity.StatusPendingITManagement)
	signatures := map[entity.Stage]string{}
	for k, v := range req.Signatures {
		signatures[k] = v
	}
	approvals := map[entity.Stage]entity.Approval{}
	for k, v := range req.Approvals {
		approvals[k] = v
	}

	out, err := workflow.Reject(req, copyUser(itMgmt), testNow)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusRejected, req.Status)
	assert.Equal(t, entity.StatusRejected, out.To)
	assert.Equal(t, signatures, req.Signatures)
	assert.Equal(t, approvals, req.Approvals)
	for _, st := range []entity.Stage{entity.StageRequester, entity.StageHR, entity.StageHRManagement, entity.StageIT} {
		assert.True(t, req.Signed(st), "firma de %s", st)
	}
	assert.NoError(t, workflow.CheckInvariants(req))
}

// TI completa la implementación con credenciales.
func TestComplete_TecnologiaRegistraCredenciales(t *testing.T) {
	req := newRequest(t)
	advance(t, req, entity.StatusInImplementation)

	_, err := workflow.Complete(req, copyUser(itUser), entity.Credentials{Username: "jdoe", Email: "jdoe@x.com"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, req.Status)
	require.NotNil(t, req.Credentials)
	assert.Equal(t, "jdoe", req.Credentials.Username)
	assert.Equal(t, "jdoe@x.com", req.Credentials.Email)
	assert.Equal(t, "2024-01-16", req.Credentials.IssuedAt)
	assert.NoError(t, workflow.CheckInvariants(req))
}

func TestComplete_SinCredenciales_InvalidInput(t *testing.T) {
	req := newRequest(t)
	advance(t, req, entity.StatusInImplementation)
	before := req.Clone()

	_, err := workflow.Complete(req, copyUser(itUser), entity.Credentials{}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, before, req)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas de diseño
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_SinFirmaDisponible_MissingSignature(t *testing.T) {
	req := newRequest(t)
	before := req.Clone()

	_, err := workflow.Approve(req, copyUser(hrUser), workflow.ApproveInput{}, testNow)

	assert.ErrorIs(t, err, domain.ErrMissingSignature)
	assert.Equal(t, before, req)
}

func TestApprove_UsaFirmaAlmacenadaSinEnrolar(t *testing.T) {
	req := newRequest(t)
	actor := copyUser(hrUser)
	actor.Signature = "stored"

	out, err := workflow.Approve(req, actor, workflow.ApproveInput{}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "stored", req.Signatures[entity.StageHR])
	assert.False(t, out.SignatureEnrolled)
}

func TestApprove_FirmaNuevaSeEnrolaEnElPerfil(t *testing.T) {
	req := newRequest(t)
	actor := copyUser(hrUser)

	out, err := workflow.Approve(req, actor, workflow.ApproveInput{Signature: "fresh"}, testNow)
	require.NoError(t, err)

	assert.True(t, out.SignatureEnrolled)
	assert.Equal(t, "fresh", actor.Signature)
	assert.Equal(t, testNow, actor.UpdatedAt)
}

func TestApprove_RefusalNoEnrolaFirma(t *testing.T) {
	req := newRequest(t)
	actor := copyUser(itUser)

	_, err := workflow.Approve(req, actor, workflow.ApproveInput{Signature: "fresh"}, testNow)
	require.Error(t, err)
	assert.Empty(t, actor.Signature, "una transición rechazada no toca el perfil")
}

func TestApprove_FechaConGranularidadDeDia(t *testing.T) {
	req := newRequest(t)
	late := time.Date(2024, 1, 16, 23, 59, 59, 0, time.UTC)

	_, err := workflow.Approve(req, copyUser(hrUser), workflow.ApproveInput{Signature: "s"}, late)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-16", req.Approvals[entity.StageHR].Date)
}

func TestSolicitanteNuncaActua(t *testing.T) {
	for _, st := range entity.Statuses() {
		assert.False(t, workflow.CanAct(entity.RoleRequester, st), "estado %s", st)
	}
	req := newRequest(t)
	_, err := workflow.Approve(req, copyUser(requester), workflow.ApproveInput{Signature: "s"}, testNow)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = workflow.Reject(req, copyUser(requester), testNow)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestComplete_SoloTecnologia(t *testing.T) {
	req := newRequest(t)
	advance(t, req, entity.StatusInImplementation)

	_, err := workflow.Complete(req, copyUser(itMgmt), entity.Credentials{Username: "x"}, testNow)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, entity.StatusInImplementation, req.Status)
}

func TestReject_NoAplicaEnImplementacionNiTerminales(t *testing.T) {
	req := newRequest(t)
	advance(t, req, entity.StatusInImplementation)

	_, err := workflow.Reject(req, copyUser(itUser), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = workflow.Complete(req, copyUser(itUser), entity.Credentials{Username: "x"}, testNow)
	require.NoError(t, err)
	_, err = workflow.Reject(req, copyUser(itUser), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.StatusCompleted, req.Status)
}

func TestApply_AccionDesconocida(t *testing.T) {
	req := newRequest(t)
	_, err := workflow.Apply(req, copyUser(hrUser), workflow.Action("archive"), workflow.ApproveInput{}, entity.Credentials{}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

// requestAt construye una solicitud en el estado indicado siguiendo el camino válido.
func requestAt(t *testing.T, status entity.Status) *entity.AccessRequest {
	t.Helper()
	req := newRequest(t)
	switch status {
	case entity.StatusRejected:
		_, err := workflow.Reject(req, copyUser(hrUser), testNow)
		require.NoError(t, err)
	case entity.StatusCompleted:
		advance(t, req, entity.StatusInImplementation)
		_, err := workflow.Complete(req, copyUser(itUser), entity.Credentials{Username: "u"}, testNow)
		require.NoError(t, err)
	default:
		advance(t, req, status)
	}
	return req
}

func allUsers() []*entity.User {
	return []*entity.User{requester, hrUser, hrMgmt, itUser, itMgmt}
}

// Toda transición exitosa avanza estrictamente al siguiente estado (o a rechazado/completado).
func TestApply_SoloAvanzaHaciaDelante(t *testing.T) {
	for _, st := range entity.Statuses() {
		for _, u := range allUsers() {
			for _, action := range []workflow.Action{workflow.ActionApprove, workflow.ActionReject, workflow.ActionComplete} {
				req := requestAt(t, st)
				out, err := workflow.Apply(req, copyUser(u), action, workflow.ApproveInput{Signature: "s"}, entity.Credentials{Username: "u"}, testNow)
				if err != nil {
					assert.Equal(t, st, req.Status)
					continue
				}
				switch action {
				case workflow.ActionReject:
					assert.Equal(t, entity.StatusRejected, req.Status)
				default:
					next, ok := workflow.NextStatus(st)
					require.True(t, ok)
					assert.Equal(t, next, req.Status)
					assert.Greater(t, workflow.Rank(req.Status), workflow.Rank(st))
				}
				assert.Equal(t, req.Status, out.To)
			}
		}
	}
}

// La compuerta coincide exactamente con el resultado de la transición.
func TestApply_CompuertaYTransicionCoinciden(t *testing.T) {
	for _, st := range entity.Statuses() {
		for _, u := range allUsers() {
			anySucceeded := false
			for _, action := range []workflow.Action{workflow.ActionApprove, workflow.ActionReject, workflow.ActionComplete} {
				req := requestAt(t, st)
				_, err := workflow.Apply(req, copyUser(u), action, workflow.ApproveInput{Signature: "s"}, entity.Credentials{Username: "u"}, testNow)
				assert.Equal(t, workflow.CanPerform(u.Role, action, st), err == nil, "rol %s acción %s estado %s", u.Role, action, st)
				anySucceeded = anySucceeded || err == nil
			}
			assert.Equal(t, workflow.CanAct(u.Role, st), anySucceeded, "rol %s estado %s", u.Role, st)
		}
	}
}

// Repetir una transición ya aplicada deja la solicitud idéntica.
func TestApply_RechazoIdempotente(t *testing.T) {
	req := newRequest(t)
	actor := copyUser(hrUser)
	_, err := workflow.Approve(req, actor, workflow.ApproveInput{Signature: "sig1", Comments: "ok"}, testNow)
	require.NoError(t, err)
	snapshot := req.Clone()

	_, err = workflow.Approve(req, actor, workflow.ApproveInput{Signature: "sig2", Comments: "otra vez"}, testNow.Add(24*time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, snapshot, req)

	rejected := requestAt(t, entity.StatusRejected)
	snapshot = rejected.Clone()
	_, err = workflow.Reject(rejected, copyUser(hrUser), testNow)
	assert.Error(t, err)
	assert.Equal(t, snapshot, rejected)
}

// Aprobación y firma siempre presentes juntas para cada etapa aprobadora.
func TestApply_AprobacionYFirmaCoexisten(t *testing.T) {
	for _, st := range entity.Statuses() {
		req := requestAt(t, st)
		for _, stage := range entity.ApproverStages() {
			assert.Equal(t, req.Approved(stage), req.Signed(stage), "estado %s etapa %s", st, stage)
		}
		assert.NoError(t, workflow.CheckInvariants(req), "estado %s", st)
	}
}

func TestCheckInvariants_DetectaAnomalias(t *testing.T) {
	req := requestAt(t, entity.StatusPendingIT)
	delete(req.Signatures, entity.StageHR)
	assert.ErrorIs(t, workflow.CheckInvariants(req), domain.ErrConflict)

	req = requestAt(t, entity.StatusPendingIT)
	req.Credentials = &entity.Credentials{Username: "x"}
	assert.ErrorIs(t, workflow.CheckInvariants(req), domain.ErrConflict)

	req = requestAt(t, entity.StatusPendingHR)
	req.Status = entity.StatusPendingIT
	assert.ErrorIs(t, workflow.CheckInvariants(req), domain.ErrConflict)
}
