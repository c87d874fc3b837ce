package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"finance-control/internal/models"
	"finance-control/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler exports transactions as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func (h *ExportHandler) loadTransactions(c *gin.Context) ([]models.Transaction, bool) {
	q := h.DB.Model(&models.Transaction{})
	if s := c.Query("accountId"); s != "" {
		accountID, err := strconv.Atoi(s)
		if err != nil || accountID <= 0 {
			util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid account id")
			return nil, false
		}
		q = q.Where("account_id = ?", accountID)
	}

	var trxs []models.Transaction
	if err := q.Order("id ASC").Find(&trxs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to load transactions")
		return nil, false
	}
	return trxs, true
}

var exportHeaders = []string{"ID", "Account", "Kind", "Amount", "Description", "Date"}

func exportRow(t *models.Transaction) []string {
	return []string{
		strconv.FormatUint(uint64(t.ID), 10),
		strconv.FormatUint(uint64(t.AccountID), 10),
		string(t.Kind),
		strconv.FormatFloat(util.CentsToFloat(t.AmountCents), 'f', 2, 64),
		t.Description,
		t.TransactionDate.Format("2006-01-02"),
	}
}

// CSV handles GET /export/csv.
func (h *ExportHandler) CSV(c *gin.Context) {
	trxs, ok := h.loadTransactions(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range trxs {
		writer.Write(exportRow(&trxs[i]))
	}
}

// XLSX handles GET /export/xlsx.
func (h *ExportHandler) XLSX(c *gin.Context) {
	trxs, ok := h.loadTransactions(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range trxs {
		row := idx + 2
		for col, value := range exportRow(&trxs[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 10)
	f.SetColWidth(sheetName, "C", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to write export")
	}
}
