package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"finance-control/internal/config"
	"finance-control/internal/database"
	"finance-control/internal/models"
	"finance-control/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "api.db")
	dsn := "file:" + path + "?_busy_timeout=5000&_txlock=immediate&_fk=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			Issuer:      "finance-control-test",
			ExpireHours: 1,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
	return router.SetupRouter(cfg, db), db
}

func seedAccount(t *testing.T, db *gorm.DB, balanceCents int64) *models.Account {
	t.Helper()

	user := models.User{
		Username:     "janedoe",
		Email:        "janedoe@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)

	account := models.Account{
		UserID:       user.ID,
		Institution:  "Caixa Econômica",
		AccountType:  "Poupança",
		BalanceCents: balanceCents,
	}
	require.NoError(t, db.Create(&account).Error)
	return &account
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func accountBalance(t *testing.T, db *gorm.DB, id uint) int64 {
	t.Helper()
	var account models.Account
	require.NoError(t, db.First(&account, id).Error)
	return account.BalanceCents
}

func TestCreateTransaction(t *testing.T) {
	r, db := newTestServer(t)
	account := seedAccount(t, db, 100000)

	w := doJSON(t, r, http.MethodPost, "/accounts/1/transactions",
		`{"amount": 500.00, "kind": "ENTRADA", "description": "Salário recebido", "transactionDate": "2024-11-15T18:12:33Z"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.EqualValues(t, 1, body["id"])
	require.EqualValues(t, account.ID, body["accountId"])
	require.EqualValues(t, 500.0, body["amount"])
	require.Equal(t, "ENTRADA", body["kind"])
	require.Equal(t, "Salário recebido", body["description"])
	require.NotEmpty(t, body["createdAt"])

	require.Equal(t, int64(150000), accountBalance(t, db, account.ID))
}

func TestCreateTransactionValidation(t *testing.T) {
	r, db := newTestServer(t)
	account := seedAccount(t, db, 100000)

	cases := map[string]string{
		"missing fields":     `{"amount": 10}`,
		"non-numeric amount": `{"amount": "abc", "kind": "ENTRADA", "description": "x", "transactionDate": "2024-11-15"}`,
		"zero amount":        `{"amount": 0, "kind": "ENTRADA", "description": "x", "transactionDate": "2024-11-15"}`,
		"negative amount":    `{"amount": -5, "kind": "SAIDA", "description": "x", "transactionDate": "2024-11-15"}`,
		"unknown kind":       `{"amount": 10, "kind": "PIX", "description": "x", "transactionDate": "2024-11-15"}`,
		"bad date":           `{"amount": 10, "kind": "ENTRADA", "description": "x", "transactionDate": "15/11/2024"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/accounts/1/transactions", body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, "INVALID_ARGUMENT", decodeBody(t, w)["error"])
		})
	}

	// nothing was written
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	require.Zero(t, count)
	require.Equal(t, int64(100000), accountBalance(t, db, account.ID))
}

func TestCreateTransactionMissingAccount(t *testing.T) {
	r, db := newTestServer(t)
	seedAccount(t, db, 0)

	w := doJSON(t, r, http.MethodPost, "/accounts/42/transactions",
		`{"amount": 10, "kind": "ENTRADA", "description": "x", "transactionDate": "2024-11-15"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "NOT_FOUND", decodeBody(t, w)["error"])

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestUpdateTransaction(t *testing.T) {
	r, db := newTestServer(t)
	account := seedAccount(t, db, 100000)

	w := doJSON(t, r, http.MethodPost, "/accounts/1/transactions",
		`{"amount": 100.00, "kind": "ENTRADA", "description": "Depósito", "transactionDate": "2024-11-15"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// partial body: only amount and kind change
	w = doJSON(t, r, http.MethodPut, "/transactions/1",
		`{"amount": 30.00, "kind": "SAIDA"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "SAIDA", body["kind"])
	require.EqualValues(t, 30.0, body["amount"])
	require.Equal(t, "Depósito", body["description"])

	// B + 100 - 100 - 30
	require.Equal(t, int64(97000), accountBalance(t, db, account.ID))

	w = doJSON(t, r, http.MethodPut, "/transactions/99", `{"amount": 1}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTransaction(t *testing.T) {
	r, db := newTestServer(t)
	account := seedAccount(t, db, 50000)

	w := doJSON(t, r, http.MethodPost, "/accounts/1/transactions",
		`{"amount": 120.00, "kind": "SAIDA", "description": "Aluguel", "transactionDate": "2024-11-15"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(38000), accountBalance(t, db, account.ID))

	w = doJSON(t, r, http.MethodDelete, "/transactions/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, decodeBody(t, w)["message"])
	require.Equal(t, int64(50000), accountBalance(t, db, account.ID))

	// voiding again is NotFound and leaves the balance alone
	w = doJSON(t, r, http.MethodDelete, "/transactions/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, int64(50000), accountBalance(t, db, account.ID))
}

func TestListTransactions(t *testing.T) {
	r, db := newTestServer(t)
	seedAccount(t, db, 0)

	bodies := []string{
		`{"amount": 10, "kind": "ENTRADA", "description": "a", "transactionDate": "2024-11-15"}`,
		`{"amount": 20, "kind": "SAIDA", "description": "b", "transactionDate": "2024-11-16"}`,
		`{"amount": 30, "kind": "ENTRADA", "description": "c", "transactionDate": "2024-11-17"}`,
	}
	for _, body := range bodies {
		w := doJSON(t, r, http.MethodPost, "/accounts/1/transactions", body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/transactions", "")
	require.Equal(t, http.StatusOK, w.Code)

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		require.Greater(t, items[i]["id"].(float64), items[i-1]["id"].(float64))
	}

	w = doJSON(t, r, http.MethodGet, "/transactions?accountId=1&kind=ENTRADA", "")
	require.Equal(t, http.StatusOK, w.Code)
	items = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)

	w = doJSON(t, r, http.MethodGet, "/transactions?kind=PIX", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAccountReflectsLedger(t *testing.T) {
	r, db := newTestServer(t)
	seedAccount(t, db, 100000)

	w := doJSON(t, r, http.MethodPost, "/accounts/1/transactions",
		`{"amount": 250.00, "kind": "SAIDA", "description": "Compra no mercado", "transactionDate": "2024-11-15"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/accounts/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.EqualValues(t, 750.0, body["balance"])
	require.Equal(t, "Caixa Econômica", body["institution"])

	w = doJSON(t, r, http.MethodGet, "/accounts/9", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAccountCascades(t *testing.T) {
	r, db := newTestServer(t)
	seedAccount(t, db, 0)

	w := doJSON(t, r, http.MethodPost, "/accounts/1/transactions",
		`{"amount": 10, "kind": "ENTRADA", "description": "x", "transactionDate": "2024-11-15"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/accounts/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	require.Zero(t, count)
}
