package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkgov-crm/internal/authz"
	"parkgov-crm/internal/finance"
	"parkgov-crm/internal/handlers"
	"parkgov-crm/internal/middleware"
	"parkgov-crm/internal/routes"
	"parkgov-crm/internal/storage/memory"
	"parkgov-crm/models"
	"parkgov-crm/internal/workflow"

	"github.com/shopspring/decimal"
)

var (
	staffActor = authz.Actor{UserID: 1, Login: "staff", Role: authz.RoleParkStaff, ParkName: "Akagera"}
	finActor   = authz.Actor{UserID: 2, Login: "finance", Role: authz.RoleFinance, ParkName: "Akagera"}
	govActor   = authz.Actor{UserID: 3, Login: "gov", Role: authz.RoleGovernment}
)

// newPortal wires the full route surface over an in-memory store, with the
// auth middleware replaced by a fixed actor. The store is shared across
// routers so one test can act as several roles.
func newPortal(store *memory.Store, actor authz.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	income := finance.NewIncomeService(store)
	expense := finance.NewExpenseService(store, false)
	api := &handlers.API{
		Income:   income,
		Expense:  expense,
		Requests: workflow.NewRequestService(store, income),
		Budgets:  workflow.NewBudgetService(store, income, expense),
		Revenue:  nil,
	}
	r := gin.New()
	routes.Register(r, api, middleware.WithActor(actor))
	return r
}

func seededStore() *memory.Store {
	store := memory.NewStore()
	store.AddRevenue(models.RevenueRecord{ParkName: "Akagera", Amount: decimal.RequireFromString("10000"), Kind: models.RevenueDonation})
	store.AddRevenue(models.RevenueRecord{ParkName: "Akagera", Amount: decimal.RequireFromString("5000"), Kind: models.RevenueTour})
	return store
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const fundRequestBody = `{
	"title": "Ranger equipment",
	"description": "Radios and first-aid kits",
	"amount": "%s",
	"category": "equipment",
	"urgency": "medium",
	"parkName": "Akagera"
}`

func createFundRequest(t *testing.T, r *gin.Engine, amount string) uint {
	t.Helper()
	w := do(r, http.MethodPost, "/api/fund-requests", strings.Replace(fundRequestBody, "%s", amount, 1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decodeBody(t, w)["id"].(float64)
	return uint(id)
}

func TestIncomeSnapshotEndpoint(t *testing.T) {
	r := newPortal(seededStore(), finActor)

	w := do(r, http.MethodGet, "/api/parks/Akagera/income", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "10000", body["donations"])
	assert.Equal(t, "5000", body["tours"])
	assert.Equal(t, "2647.06", body["governmentSupport"])
	assert.Equal(t, "17647.06", body["total"])

	w = do(r, http.MethodGet, "/api/parks/Akagera/income?from=bad-date", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpenseSnapshotEndpoint(t *testing.T) {
	store := seededStore()
	staffPortal := newPortal(store, staffActor)
	finPortal := newPortal(store, finActor)

	id := createFundRequest(t, staffPortal, "5000")
	w := do(finPortal, http.MethodPut, "/api/fund-requests/"+strconv.Itoa(int(id))+"/status", `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(finPortal, http.MethodGet, "/api/parks/Akagera/expenses", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "5000", body["fundRequests"])
	assert.Equal(t, "5000", body["total"])
}

func TestFundRequestDecisionFlow(t *testing.T) {
	store := seededStore()
	staffPortal := newPortal(store, staffActor)
	finPortal := newPortal(store, finActor)

	id := createFundRequest(t, staffPortal, "8000")
	path := "/api/fund-requests/" + strconv.Itoa(int(id)) + "/status"

	// Staff cannot review at all.
	w := do(staffPortal, http.MethodPut, path, `{"status":"approved"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Over the 40% line: approval is refused with the reviewer-facing
	// payload, rejection with the prefilled reason succeeds.
	w = do(finPortal, http.MethodPut, path, `{"status":"approved"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "7058.82", body["threshold"])
	assert.Equal(t, "17647.06", body["incomeTotal"])
	assert.Equal(t, "Request amount exceeds 40% of total park income (7058.82 USD)", body["suggestedReason"])

	w = do(finPortal, http.MethodPut, path, `{"status":"rejected","reason":"too short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(finPortal, http.MethodPut, path, `{"status":"rejected","reason":"Request amount exceeds 40% of total park income (7058.82 USD)"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Terminal now.
	w = do(finPortal, http.MethodPut, path, `{"status":"approved"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApproveThenReapproveConflict(t *testing.T) {
	store := seededStore()
	staffPortal := newPortal(store, staffActor)
	finPortal := newPortal(store, finActor)

	id := createFundRequest(t, staffPortal, "5000")
	path := "/api/fund-requests/" + strconv.Itoa(int(id)) + "/status"

	require.Equal(t, http.StatusOK, do(finPortal, http.MethodPut, path, `{"status":"approved"}`).Code)
	assert.Equal(t, http.StatusConflict, do(finPortal, http.MethodPut, path, `{"status":"approved"}`).Code)
}

func TestRequestNotFoundAndBadInput(t *testing.T) {
	r := newPortal(seededStore(), finActor)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/api/fund-requests/404/status", `{"status":"approved"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/fund-requests/abc/status", `{"status":"approved"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/fund-requests/404/status", `{"status":"archived"}`).Code)
}

const budgetBody = `{
	"title": "Akagera FY2027 operating budget",
	"fiscalYear": "2027",
	"parkName": "Akagera",
	"items": [
		{"category": "Fuel", "description": "Patrol vehicle fuel", "amount": "200", "type": "expense"},
		{"category": "Signage", "description": "Trail signage refresh", "amount": "150", "type": "expense"}
	]
}`

func TestBudgetLifecycleOverHTTP(t *testing.T) {
	store := seededStore()
	finPortal := newPortal(store, finActor)
	govPortal := newPortal(store, govActor)

	w := do(finPortal, http.MethodPost, "/api/budgets", budgetBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "350", body["totalAmount"])
	id := strconv.Itoa(int(body["id"].(float64)))

	// Adding a negative item is refused.
	w = do(finPortal, http.MethodPost, "/api/budgets/"+id+"/items",
		`{"category":"Training","description":"Refund","amount":"-10","type":"expense"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Government cannot create budgets.
	assert.Equal(t, http.StatusForbidden, do(govPortal, http.MethodPost, "/api/budgets", budgetBody).Code)

	require.Equal(t, http.StatusOK, do(finPortal, http.MethodPost, "/api/budgets/"+id+"/submit", "").Code)

	// Submitted: no more draft-style edits.
	assert.Equal(t, http.StatusConflict, do(finPortal, http.MethodPut, "/api/budgets/"+id, budgetBody).Code)

	// The review surface carries both snapshots.
	w = do(govPortal, http.MethodGet, "/api/budgets/"+id+"/review", "")
	require.Equal(t, http.StatusOK, w.Code)
	surface := decodeBody(t, w)
	income := surface["income"].(map[string]any)
	assert.Equal(t, "17647.06", income["total"])

	w = do(govPortal, http.MethodPut, "/api/budgets/"+id+"/status", `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Approved budgets stay viewable but terminal.
	assert.Equal(t, http.StatusOK, do(govPortal, http.MethodGet, "/api/budgets/"+id, "").Code)
	assert.Equal(t, http.StatusConflict,
		do(govPortal, http.MethodPut, "/api/budgets/"+id+"/status", `{"status":"rejected","reason":"second thoughts about totals"}`).Code)
}
