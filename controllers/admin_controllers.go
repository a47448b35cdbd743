package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	chart "github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/lifecycle"
	"github.com/lacasadelchilaquil/chilaquiles-app/models"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats returns the numbers each dashboard shows: order counts
// per status and sales totals for everyone, plus recent orders and top
// products for admins.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	roleValue, _ := c.Get("role")
	role, _ := roleValue.(string)

	today := time.Now().Format("2006-01-02")

	stats := gin.H{}

	var totalOrders, todayOrders int64
	ac.DB.Model(&models.Order{}).Count(&totalOrders)
	ac.DB.Model(&models.Order{}).Where("DATE(created_at) = ?", today).Count(&todayOrders)
	stats["total_orders"] = totalOrders
	stats["today_orders"] = todayOrders

	statusCounts := make(map[string]int64, len(lifecycle.Statuses))
	for _, status := range lifecycle.Statuses {
		var n int64
		ac.DB.Model(&models.Order{}).Where("status = ?", status.String()).Count(&n)
		statusCounts[status.String()] = n
	}
	stats["order_stats"] = statusCounts

	// Sales only count orders that actually got paid at some point.
	paidStatuses := []string{
		lifecycle.StatusPaid.String(),
		lifecycle.StatusPreparing.String(),
		lifecycle.StatusReady.String(),
		lifecycle.StatusDelivered.String(),
	}
	var totalSales, todaySales float64
	ac.DB.Model(&models.Order{}).Where("status IN ?", paidStatuses).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&totalSales)
	ac.DB.Model(&models.Order{}).Where("status IN ? AND DATE(created_at) = ?", paidStatuses, today).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&todaySales)
	stats["total_sales"] = totalSales
	stats["today_sales"] = todaySales

	if role == lifecycle.RoleAdmin.String() {
		var recentOrders []models.Order
		ac.DB.Preload("Items").Preload("Items.Product").
			Order("created_at desc").Limit(5).Find(&recentOrders)
		stats["recent_orders"] = recentOrders

		var topProducts []struct {
			ProductID string  `json:"product_id"`
			Name      string  `json:"name"`
			Quantity  int64   `json:"quantity"`
			Revenue   float64 `json:"revenue"`
		}
		ac.DB.Raw(`
			SELECT p.id AS product_id, p.name AS name,
			       SUM(oi.quantity) AS quantity,
			       SUM(oi.price * oi.quantity) AS revenue
			FROM order_items oi
			JOIN products p ON oi.product_id = p.id
			GROUP BY p.id, p.name
			ORDER BY quantity DESC
			LIMIT 5
		`).Scan(&topProducts)
		stats["top_products"] = topProducts
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// GetSalesChart renders today's sales per hour as a PNG bar chart.
// Admin only (enforced in the router).
func (ac *AdminController) GetSalesChart(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	type hourRow struct {
		Hour  int
		Sales float64
	}
	var rows []hourRow
	ac.DB.Raw(`
		SELECT EXTRACT(HOUR FROM created_at) AS hour,
		       COALESCE(SUM(total), 0) AS sales
		FROM orders
		WHERE DATE(created_at) = ? AND status != ?
		GROUP BY EXTRACT(HOUR FROM created_at)
		ORDER BY hour
	`, today, lifecycle.StatusCancelled.String()).Scan(&rows)

	byHour := make(map[int]float64, len(rows))
	for _, row := range rows {
		byHour[row.Hour] = row.Sales
	}

	bars := make([]chart.Value, 0, 14)
	for hour := 8; hour <= 21; hour++ {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%02dh", hour),
			Value: byHour[hour],
		})
	}

	graph := chart.BarChart{
		Title:    "Ventas por hora",
		Width:    900,
		Height:   400,
		BarWidth: 40,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
