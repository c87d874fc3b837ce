package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"finance-control/internal/ledger"
	"finance-control/internal/models"
	"finance-control/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler exposes the ledger operations over REST.
type TransactionHandler struct {
	Ledger *ledger.Ledger
}

func NewTransactionHandler(l *ledger.Ledger) *TransactionHandler {
	return &TransactionHandler{Ledger: l}
}

type transactionResp struct {
	ID              uint      `json:"id"`
	AccountID       uint      `json:"accountId"`
	Amount          float64   `json:"amount"`
	Kind            string    `json:"kind"`
	Description     string    `json:"description"`
	TransactionDate time.Time `json:"transactionDate"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:              t.ID,
		AccountID:       t.AccountID,
		Amount:          util.CentsToFloat(t.AmountCents),
		Kind:            string(t.Kind),
		Description:     t.Description,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
	}
}

// writeLedgerError maps the ledger error taxonomy onto HTTP statuses.
func writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidArgument):
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.KindNotFound, "record not found")
	case errors.Is(err, ledger.ErrConflictRetryable):
		util.Error(c, http.StatusConflict, util.KindConflict, "concurrent update conflict, please retry")
	default:
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "storage failure")
	}
}

type createTransactionReq struct {
	Amount          *float64 `json:"amount" binding:"required"`
	Kind            string   `json:"kind" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	TransactionDate string   `json:"transactionDate" binding:"required"`
}

// Create handles POST /accounts/:id/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	accountID, err := strconv.Atoi(c.Param("id"))
	if err != nil || accountID <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid account id")
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "incomplete or malformed transaction body")
		return
	}

	date, err := util.ParseDate(req.TransactionDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid transaction date")
		return
	}

	trx, err := h.Ledger.Record(c.Request.Context(), ledger.RecordInput{
		AccountID:       uint(accountID),
		Amount:          decimal.NewFromFloat(*req.Amount),
		Kind:            models.TransactionKind(req.Kind),
		Description:     req.Description,
		TransactionDate: date,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResp(trx))
}

type updateTransactionReq struct {
	Amount          *float64 `json:"amount"`
	Kind            *string  `json:"kind"`
	Description     *string  `json:"description"`
	TransactionDate *string  `json:"transactionDate"`
}

// Update handles PUT /transactions/:id. Absent fields keep their value.
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid transaction id")
		return
	}

	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "malformed transaction body")
		return
	}

	var in ledger.AmendInput
	if req.Amount != nil {
		d := decimal.NewFromFloat(*req.Amount)
		in.Amount = &d
	}
	if req.Kind != nil {
		k := models.TransactionKind(*req.Kind)
		in.Kind = &k
	}
	in.Description = req.Description
	if req.TransactionDate != nil {
		date, err := util.ParseDate(*req.TransactionDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid transaction date")
			return
		}
		in.TransactionDate = &date
	}

	trx, err := h.Ledger.Amend(c.Request.Context(), uint(id), in)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResp(trx))
}

// Delete handles DELETE /transactions/:id.
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid transaction id")
		return
	}

	if err := h.Ledger.Void(c.Request.Context(), uint(id)); err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction removed"})
}

// List handles GET /transactions?accountId=&kind=.
func (h *TransactionHandler) List(c *gin.Context) {
	var f ledger.Filter

	if s := c.Query("accountId"); s != "" {
		accountID, err := strconv.Atoi(s)
		if err != nil || accountID <= 0 {
			util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid account id")
			return
		}
		f.AccountID = uint(accountID)
	}
	f.Kind = models.TransactionKind(c.Query("kind"))

	trxs, err := h.Ledger.List(c.Request.Context(), f)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	items := make([]transactionResp, 0, len(trxs))
	for i := range trxs {
		items = append(items, toTransactionResp(&trxs[i]))
	}
	c.JSON(http.StatusOK, items)
}
