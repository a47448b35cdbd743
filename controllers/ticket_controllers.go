package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/lifecycle"
	"github.com/lacasadelchilaquil/chilaquiles-app/models"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

type TicketController struct {
	DB *gorm.DB
}

func NewTicketController(db *gorm.DB) *TicketController {
	return &TicketController{DB: db}
}

// GenerateTicket renders a printable PDF receipt for a paid order.
// POST /admin/orders/:order_id/ticket
func (tc *TicketController) GenerateTicket(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := tc.DB.Preload("Items").Preload("Items.Product").
		First(&order, "id = ?", orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order not found"))
		return
	}

	status := lifecycle.Status(order.Status)
	if status == lifecycle.StatusPending || status == lifecycle.StatusCancelled {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order has not been paid"))
		return
	}

	meta, err := lifecycle.DecodeMetadata(order.Metadata)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	// Product names carry accents, core fonts want CP1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "La Casa del Chilaquil", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Ticket de consumo", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Orden: %s", meta.OrderNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Mesa: %s", meta.Table)), "", 1, "L", false, 0, "")
	if meta.PaymentMethod != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Pago: %s", meta.PaymentMethod), "", 1, "L", false, 0, "")
	}
	if meta.PaidAt != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Pagado: %s", meta.PaidAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Fecha: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 7, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Cant.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Importe", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range order.Items {
		pdf.CellFormat(90, 7, tr(item.Product.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, utils.FormatCurrency(item.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, utils.FormatCurrency(item.Price*float64(item.Quantity)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(150, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, utils.FormatCurrency(order.Total), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=ticket-%s.pdf", meta.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
