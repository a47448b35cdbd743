package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/events"
	"github.com/lacasadelchilaquil/chilaquiles-app/lifecycle"
	"github.com/lacasadelchilaquil/chilaquiles-app/models"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// CreateOrder -> customer submits the guided-selector result. The order is
// created in PENDING with its item list fixed; total is computed here from
// the catalog prices, never recomputed afterwards.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type ItemReq struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	type ReqBody struct {
		Items       []ItemReq `json:"items" binding:"required,min=1"`
		TableNumber string    `json:"table_number"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := body.TableNumber
	if table == "" {
		table = "Para llevar"
	}

	meta := lifecycle.Metadata{
		OrderNumber: newOrderNumber(),
		Table:       table,
	}
	blob, err := meta.Encode()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var order models.Order
	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			Status:    lifecycle.StatusPending.String(),
			Metadata:  blob,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, item := range body.Items {
			if item.Quantity < 1 {
				item.Quantity = 1
			}

			var product models.Product
			if err := tx.First(&product, "id = ? AND available = ?", item.ProductID, true).Error; err != nil {
				return fmt.Errorf("product %s is not available", item.ProductID)
			}

			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			total += float64(item.Quantity) * product.Price
		}

		order.Total = total
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Reload with items for the response
	oc.DB.Preload("Items").Preload("Items.Product").First(&order, "id = ?", order.ID)

	events.BroadcastOrderCreated(order)
	utils.InfoLogger.Printf("Order %s created (%s, total %s)",
		order.ID, meta.OrderNumber, utils.FormatCurrency(order.Total))

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> order detail, used by the confirmation screen
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("Items").Preload("Items.Product").
		First(&order, "id = ?", orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetAllOrders lists orders for the dashboards. Each role sees the slice of
// the lifecycle it works on; ADMIN sees everything. Supports ?status=,
// ?page= and ?limit=.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	roleValue, _ := c.Get("role")
	role, _ := roleValue.(string)

	query := oc.DB.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		parsed, err := lifecycle.ParseStatus(status)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		query = query.Where("status = ?", parsed.String())
	} else {
		switch lifecycle.Role(role) {
		case lifecycle.RoleKitchen:
			query = query.Where("status IN ?", []string{
				lifecycle.StatusPaid.String(), lifecycle.StatusPreparing.String(),
			})
		case lifecycle.RoleWaiter:
			query = query.Where("status IN ?", []string{
				lifecycle.StatusReady.String(), lifecycle.StatusDelivered.String(),
			})
		case lifecycle.RoleStaff:
			query = query.Where("status IN ?", []string{
				lifecycle.StatusPending.String(), lifecycle.StatusPaid.String(),
			})
		}
		// ADMIN sees all
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.
		Preload("Items").
		Preload("Items.Product").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// newOrderNumber generates the short human-facing reference kept in the
// metadata blob, e.g. ORD-20260829-3F2A91.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}
