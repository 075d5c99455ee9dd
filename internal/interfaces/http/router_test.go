package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-api/internal/application/auth"
	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/application/planning"
	"github.com/jhoicas/mrp-api/internal/application/usecase"
	"github.com/jhoicas/mrp-api/internal/infrastructure/lock"
	"github.com/jhoicas/mrp-api/internal/infrastructure/memory"
	"github.com/jhoicas/mrp-api/internal/infrastructure/pdf"
	"github.com/jhoicas/mrp-api/internal/infrastructure/report"
	apphttp "github.com/jhoicas/mrp-api/internal/interfaces/http"
	"github.com/jhoicas/mrp-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	boms := memory.NewBOMRepository(store)
	orders := memory.NewOrderRepository(store)
	requirements := memory.NewMaterialRequirementRepository(store)
	users := memory.NewUserRepository(store)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:    usecase.NewUserUseCase(users),
		ProductUC: usecase.NewProductUseCase(products, boms),
		BOMUC:     usecase.NewBOMUseCase(boms, products),
		OrderUC:   usecase.NewOrderUseCase(orders, products, requirements),
		RequirementUC: planning.NewMaterialRequirementUseCase(planning.Deps{
			Repo:      requirements,
			OrderRepo: orders,
			Tx:        memory.NewTxRunner(store),
			Locker:    lock.NewLocalLocker(time.Second),
			Exporter:  report.NewExcelExporter(),
			Reporter:  pdf.NewMarotoReportGenerator("test"),
			Logger:    logger.NewNop(),
		}),
		JWTSecret: testJWTSecret,
		Logger:    logger.NewNop(),
	})
	return &testServer{t: t, app: app}
}

// call lanza la petición y decodifica el JSON de respuesta en out (si no es nil).
func (s *testServer) call(method, path, token string, body interface{}, out interface{}) *http.Response {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	if out != nil {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// adminToken da de alta el administrador inicial y devuelve su token.
func (s *testServer) adminToken() string {
	s.t.Helper()
	resp := s.call(http.MethodPost, "/api/v1/setup/init-admin", "", fiber.Map{
		"email": "admin@astillero.test", "password": "secreto123",
	}, nil)
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)

	var login dto.LoginResponse
	resp = s.call(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "admin@astillero.test", "password": "secreto123",
	}, &login)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(s.t, login.Token)
	return login.Token
}

func (s *testServer) createProduct(token, code, typ string, stock, lead int) string {
	s.t.Helper()
	var out dto.ProductResponse
	resp := s.call(http.MethodPost, "/api/v1/products", token, fiber.Map{
		"code": code, "name": code, "product_type": typ,
		"quantity_in_stock": stock, "lead_time_days": lead,
	}, &out)
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	return out.ID
}

// seedBoat crea BOAT-001 = HUL-001 + ENG-001 y una orden con el estado indicado. Devuelve el ID de la orden.
func (s *testServer) seedBoat(token, orderStatus string, engineStock int) string {
	s.t.Helper()
	boat := s.createProduct(token, "BOAT-001", "FINAL", 0, 0)
	hull := s.createProduct(token, "HUL-001", "COMPONENT", 5, 0)
	engine := s.createProduct(token, "ENG-001", "COMPONENT", engineStock, 30)

	resp := s.call(http.MethodPost, "/api/v1/boms", token, fiber.Map{
		"name": "Lancha estándar", "product_id": boat, "version": "1.0",
		"items": []fiber.Map{
			{"component_id": hull, "quantity": 1},
			{"component_id": engine, "quantity": 1},
		},
	}, nil)
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)

	var order dto.OrderResponse
	resp = s.call(http.MethodPost, "/api/v1/orders", token, fiber.Map{
		"order_number": "O1", "order_type": "PRODUCTION", "status": orderStatus,
		"required_date": "2025-04-15T00:00:00Z",
		"items":         []fiber.Map{{"product_id": boat, "quantity": 1}},
	}, &order)
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	return order.ID
}

func (s *testServer) createRequirement(token, orderID string) dto.MaterialRequirementResponse {
	s.t.Helper()
	var out dto.MaterialRequirementResponse
	resp := s.call(http.MethodPost, "/api/v1/material-requirements", token, fiber.Map{
		"reference_number":    "MRP-2025-001",
		"planning_start_date": "2025-03-01T00:00:00Z",
		"source_orders":       []string{orderID},
	}, &out)
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestMaterialRequirement_FlujoCompletoLancha(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()
	orderID := s.seedBoat(token, "CONFIRMED", 3)

	mr := s.createRequirement(token, orderID)
	assert.Equal(t, "draft", mr.Status)
	assert.True(t, mr.ConsiderStock, "consider_stock por defecto true")
	assert.Empty(t, mr.Items)

	var calc dto.MaterialRequirementResponse
	resp := s.call(http.MethodPost, "/api/v1/material-requirements/"+mr.ID+"/calculate", token, nil, &calc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "calculated", calc.Status)
	require.NotNil(t, calc.CalculationDate)
	require.Len(t, calc.Items, 2)

	eng := calc.Items[0]
	assert.Equal(t, "ENG-001", eng.ProductCode)
	assert.True(t, eng.QuantityToProcure.IsZero())
	assert.True(t, eng.IsAvailable)
	assert.Equal(t, "2025-03-16", eng.PlannedOrderDate.Format("2006-01-02"))
	assert.Equal(t, "2025-04-15", eng.RequirementDate.Format("2006-01-02"))

	var details dto.MaterialRequirementDetailsResponse
	resp = s.call(http.MethodGet, "/api/v1/material-requirements/"+mr.ID+"/details", token, nil, &details)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, details.SourceOrderDetails, 1)
	assert.Equal(t, "O1", details.SourceOrderDetails[0].OrderNumber)

	resp = s.call(http.MethodGet, "/api/v1/material-requirements/"+mr.ID+"/export.xlsx", token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "MRP-2025-001.xlsx")

	resp = s.call(http.MethodGet, "/api/v1/material-requirements/"+mr.ID+"/report.pdf", token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = s.call(http.MethodPost, "/api/v1/material-requirements/"+mr.ID+"/status", token, fiber.Map{"status": "processing"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var errBody dto.ErrorResponse
	resp = s.call(http.MethodDelete, "/api/v1/material-requirements/"+mr.ID, token, nil, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errBody.Code)

	var after dto.MaterialRequirementResponse
	resp = s.call(http.MethodGet, "/api/v1/material-requirements/"+mr.ID, token, nil, &after)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "processing", after.Status, "el requerimiento no cambia tras el rechazo")
	assert.Len(t, after.Items, 2)
}

func TestMaterialRequirement_SinStockDeMotorSeCompra(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()
	orderID := s.seedBoat(token, "CONFIRMED", 0)
	mr := s.createRequirement(token, orderID)

	var calc dto.MaterialRequirementResponse
	resp := s.call(http.MethodPost, "/api/v1/material-requirements/"+mr.ID+"/calculate", token, nil, &calc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, calc.Items, 2)
	assert.Equal(t, "1", calc.Items[0].QuantityToProcure.String())
	assert.False(t, calc.Items[0].IsAvailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores
// ──────────────────────────────────────────────────────────────────────────────

func TestMaterialRequirement_OrdenNoConfirmada_Retorna422(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()
	orderID := s.seedBoat(token, "DRAFT", 3)
	mr := s.createRequirement(token, orderID)

	var errBody dto.ErrorResponse
	resp := s.call(http.MethodPost, "/api/v1/material-requirements/"+mr.ID+"/calculate", token, nil, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INELIGIBLE_SOURCE_ORDER", errBody.Code)
	assert.Contains(t, errBody.Detail, "O1")

	var after dto.MaterialRequirementResponse
	s.call(http.MethodGet, "/api/v1/material-requirements/"+mr.ID, token, nil, &after)
	assert.Equal(t, "draft", after.Status)
	assert.Empty(t, after.Items)
}

func TestMaterialRequirement_SinOrdenesOrigen_Retorna400(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()

	var errBody dto.ErrorResponse
	resp := s.call(http.MethodPost, "/api/v1/material-requirements", token, fiber.Map{
		"reference_number":    "MRP-2025-002",
		"planning_start_date": "2025-03-01T00:00:00Z",
		"source_orders":       []string{},
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)

	var list dto.MaterialRequirementListResponse
	resp = s.call(http.MethodGet, "/api/v1/material-requirements", token, nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, list.Items, "no se persiste nada")
}

func TestMaterialRequirement_ReferenciaDuplicada_Retorna400(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()
	orderID := s.seedBoat(token, "CONFIRMED", 3)
	s.createRequirement(token, orderID)

	var errBody dto.ErrorResponse
	resp := s.call(http.MethodPost, "/api/v1/material-requirements", token, fiber.Map{
		"reference_number":    "MRP-2025-001",
		"planning_start_date": "2025-03-01T00:00:00Z",
		"source_orders":       []string{orderID},
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Contains(t, errBody.Detail, "reference_number")
}

func TestMaterialRequirement_Inexistente_Retorna404(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()

	var errBody dto.ErrorResponse
	resp := s.call(http.MethodGet, "/api/v1/material-requirements/no-existe", token, nil, &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errBody.Code)
}

func TestMaterialRequirement_ExportarSinCalcular_Retorna409(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()
	orderID := s.seedBoat(token, "CONFIRMED", 3)
	mr := s.createRequirement(token, orderID)

	var errBody dto.ErrorResponse
	resp := s.call(http.MethodGet, "/api/v1/material-requirements/"+mr.ID+"/export.xlsx", token, nil, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errBody.Code)
}

func TestMaterialRequirement_PatchReabreHorizonte(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()
	orderID := s.seedBoat(token, "CONFIRMED", 3)
	mr := s.createRequirement(token, orderID)
	path := "/api/v1/material-requirements/" + mr.ID

	var out dto.MaterialRequirementResponse
	resp := s.call(http.MethodPatch, path, token, fiber.Map{"planning_end_date": "2025-06-01T00:00:00Z"}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, out.PlanningEndDate)

	out = dto.MaterialRequirementResponse{}
	resp = s.call(http.MethodPatch, path, token, fiber.Map{"planning_end_date": nil}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, out.PlanningEndDate, "null equivale a no enviar el campo")

	out = dto.MaterialRequirementResponse{}
	resp = s.call(http.MethodPatch, path, token, fiber.Map{"clear_planning_end_date": true}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, out.PlanningEndDate)
}

func TestProducts_CuerpoMalformado_Retorna400(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var errBody dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)
}

func TestProducts_CampoRequerido_Retorna400ConCampo(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()

	var errBody dto.ErrorResponse
	resp := s.call(http.MethodPost, "/api/v1/products", token, fiber.Map{
		"name": "Sin código", "product_type": "MATERIAL",
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Contains(t, errBody.Detail, "code")
}

func TestProducts_CodigoDuplicado_Retorna409(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()
	s.createProduct(token, "MAT-001", "MATERIAL", 0, 0)

	var errBody dto.ErrorResponse
	resp := s.call(http.MethodPost, "/api/v1/products", token, fiber.Map{
		"code": "MAT-001", "name": "Otro", "product_type": "MATERIAL",
	}, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errBody.Code)
}

func TestOrders_OrigenDeRequerimiento_NoSePuedeEliminar(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()
	orderID := s.seedBoat(token, "CONFIRMED", 3)
	s.createRequirement(token, orderID)

	var errBody dto.ErrorResponse
	resp := s.call(http.MethodDelete, "/api/v1/orders/"+orderID, token, nil, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errBody.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación y roles
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_SinToken_Retorna401(t *testing.T) {
	s := newTestServer(t)

	var errBody dto.ErrorResponse
	resp := s.call(http.MethodGet, "/api/v1/products", "", nil, &errBody)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errBody.Code)
}

func TestRouter_InitAdminSoloUnaVez(t *testing.T) {
	s := newTestServer(t)
	s.adminToken()

	resp := s.call(http.MethodPost, "/api/v1/setup/init-admin", "", fiber.Map{
		"email": "otro@astillero.test", "password": "secreto123",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_LoginIncorrecto_Retorna401(t *testing.T) {
	s := newTestServer(t)
	s.adminToken()

	var errBody dto.ErrorResponse
	resp := s.call(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "admin@astillero.test", "password": "incorrecta",
	}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", errBody.Code)
}

func TestRouter_PlannerNoGestionaUsuarios(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	resp := s.call(http.MethodPost, "/api/v1/users", admin, fiber.Map{
		"email": "planner@astillero.test", "password": "secreto123", "role": "planner",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var login dto.LoginResponse
	resp = s.call(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "planner@astillero.test", "password": "secreto123",
	}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "planner", login.User.Role)

	resp = s.call(http.MethodGet, "/api/v1/users", login.Token, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.call(http.MethodGet, "/api/v1/products", login.Token, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
