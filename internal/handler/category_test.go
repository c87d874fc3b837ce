package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"finance-control/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCategoryCRUDAndAssignment(t *testing.T) {
	r, db := newTestServer(t)
	account := seedAccount(t, db, 100000)

	w := doJSON(t, r, http.MethodPost, "/categories", `{"name": "Alimentação"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Alimentação", decodeBody(t, w)["name"])

	// duplicate name, case-insensitive
	w = doJSON(t, r, http.MethodPost, "/categories", `{"name": "alimentação"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/accounts/1/transactions",
		`{"amount": 80.00, "kind": "SAIDA", "description": "Restaurante", "transactionDate": "2024-11-15"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/categories/assign",
		`{"transactionId": 1, "categoryId": 1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var trx models.Transaction
	require.NoError(t, db.Preload("Categories").First(&trx, 1).Error)
	require.Len(t, trx.Categories, 1)

	// assignment never touches the balance
	require.Equal(t, int64(92000), accountBalance(t, db, account.ID))

	// assigning to a missing transaction is NotFound
	w = doJSON(t, r, http.MethodPost, "/categories/assign",
		`{"transactionId": 99, "categoryId": 1}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/categories/1", `{"name": "Comida"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, "Comida", items[0]["name"])

	w = doJSON(t, r, http.MethodDelete, "/categories/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	// deleting the category leaves the transaction (and balance) intact
	require.NoError(t, db.First(&trx, 1).Error)
	require.Equal(t, int64(92000), accountBalance(t, db, account.ID))
}
