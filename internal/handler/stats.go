package handler

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"finance-control/internal/models"
	"finance-control/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StatsHandler feeds the dashboard summary cards and the bar chart.
type StatsHandler struct {
	DB *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{DB: db}
}

func (h *StatsHandler) accountFilter(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
	s := c.Query("accountId")
	if s == "" {
		return q, true
	}
	accountID, err := strconv.Atoi(s)
	if err != nil || accountID <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid account id")
		return nil, false
	}
	return q.Where("account_id = ?", accountID), true
}

// Summary handles GET /stats/summary?accountId=.
// Returns entrada/saida totals and the net for the summary cards.
func (h *StatsHandler) Summary(c *gin.Context) {
	q, ok := h.accountFilter(c, h.DB.Model(&models.Transaction{}))
	if !ok {
		return
	}

	var trxs []models.Transaction
	if err := q.Find(&trxs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to load transactions")
		return
	}

	var entryCents, exitCents int64
	for i := range trxs {
		if trxs[i].Kind == models.KindEntry {
			entryCents += trxs[i].AmountCents
		} else {
			exitCents += trxs[i].AmountCents
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalEntries": util.CentsToFloat(entryCents),
		"totalExits":   util.CentsToFloat(exitCents),
		"net":          util.CentsToFloat(entryCents - exitCents),
	})
}

// Monthly handles GET /stats/monthly?month=YYYY-MM&accountId=.
// Returns per-day entrada/saida totals for the bar chart.
func (h *StatsHandler) Monthly(c *gin.Context) {
	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().Format("2006-01")
	}
	t, err := util.ParseMonth(monthStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "month must be YYYY-MM")
		return
	}

	startOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	q, ok := h.accountFilter(c, h.DB.Model(&models.Transaction{}))
	if !ok {
		return
	}

	var trxs []models.Transaction
	if err := q.Where("transaction_date >= ? AND transaction_date < ?", startOfMonth, endOfMonth).
		Order("transaction_date ASC").
		Find(&trxs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to load transactions")
		return
	}

	type dailyStat struct {
		Date    string  `json:"date"` // YYYY-MM-DD
		Entries float64 `json:"entries"`
		Exits   float64 `json:"exits"`
		Net     float64 `json:"net"`
	}

	type dailyCents struct {
		entry int64
		exit  int64
	}
	dailyMap := make(map[string]*dailyCents)
	var totalEntry, totalExit int64
	for i := range trxs {
		trx := &trxs[i]
		key := trx.TransactionDate.Format("2006-01-02")
		ds, ok := dailyMap[key]
		if !ok {
			ds = &dailyCents{}
			dailyMap[key] = ds
		}
		if trx.Kind == models.KindEntry {
			ds.entry += trx.AmountCents
			totalEntry += trx.AmountCents
		} else {
			ds.exit += trx.AmountCents
			totalExit += trx.AmountCents
		}
	}

	daily := make([]dailyStat, 0, len(dailyMap))
	for date, ds := range dailyMap {
		daily = append(daily, dailyStat{
			Date:    date,
			Entries: util.CentsToFloat(ds.entry),
			Exits:   util.CentsToFloat(ds.exit),
			Net:     util.CentsToFloat(ds.entry - ds.exit),
		})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	c.JSON(http.StatusOK, gin.H{
		"month":        monthStr,
		"daily":        daily,
		"totalEntries": util.CentsToFloat(totalEntry),
		"totalExits":   util.CentsToFloat(totalExit),
		"net":          util.CentsToFloat(totalEntry - totalExit),
	})
}
