package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lacasadelchilaquil/chilaquiles-app/events"
	"github.com/lacasadelchilaquil/chilaquiles-app/lifecycle"
	"github.com/lacasadelchilaquil/chilaquiles-app/models"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

// TransitionController exposes one handler per lifecycle action, but every
// handler funnels into the same lifecycle.Manager so the transition and
// permission rules live in exactly one place.
type TransitionController struct {
	Manager *lifecycle.Manager
}

func NewTransitionController(manager *lifecycle.Manager) *TransitionController {
	return &TransitionController{Manager: manager}
}

// MarkPaid -> cashier registers the payment. Requires a payment method.
// PUT /admin/orders/:order_id/payment
func (tc *TransitionController) MarkPaid(c *gin.Context) {
	var body struct {
		PaymentMethod string `json:"payment_method"`
	}
	// A missing body means a missing payment method, which the manager
	// rejects; don't fail the bind itself.
	_ = c.ShouldBindJSON(&body)

	tc.apply(c, lifecycle.TransitionRequest{
		OrderID:       c.Param("order_id"),
		Target:        lifecycle.StatusPaid,
		Role:          actorRole(c),
		PaymentMethod: lifecycle.PaymentMethod(body.PaymentMethod),
	}, func(order models.Order) {
		events.BroadcastPaymentUpdate(order)
	})
}

// MarkPreparing -> kitchen picks the order up.
// PUT /admin/orders/:order_id/preparing
func (tc *TransitionController) MarkPreparing(c *gin.Context) {
	tc.apply(c, lifecycle.TransitionRequest{
		OrderID: c.Param("order_id"),
		Target:  lifecycle.StatusPreparing,
		Role:    actorRole(c),
	}, nil)
}

// MarkReady -> kitchen finishes the order. Legal from PAID as well as
// PREPARING; the kitchen often skips the preparing step.
// PUT /admin/orders/:order_id/ready
func (tc *TransitionController) MarkReady(c *gin.Context) {
	tc.apply(c, lifecycle.TransitionRequest{
		OrderID: c.Param("order_id"),
		Target:  lifecycle.StatusReady,
		Role:    actorRole(c),
	}, nil)
}

// MarkDelivered -> waiter hands the order to the customer.
// PUT /admin/orders/:order_id/delivered
func (tc *TransitionController) MarkDelivered(c *gin.Context) {
	tc.apply(c, lifecycle.TransitionRequest{
		OrderID: c.Param("order_id"),
		Target:  lifecycle.StatusDelivered,
		Role:    actorRole(c),
	}, nil)
}

// UpdateStatus is the generic endpoint the admin dashboard uses, e.g. for
// CANCELLED. It goes through the same permission and transition checks as
// the dedicated handlers.
// PUT /admin/orders/:order_id/status
func (tc *TransitionController) UpdateStatus(c *gin.Context) {
	var body struct {
		Status        string `json:"status" binding:"required"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	target, err := lifecycle.ParseStatus(body.Status)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tc.apply(c, lifecycle.TransitionRequest{
		OrderID:       c.Param("order_id"),
		Target:        target,
		Role:          actorRole(c),
		PaymentMethod: lifecycle.PaymentMethod(body.PaymentMethod),
	}, nil)
}

func (tc *TransitionController) apply(c *gin.Context, req lifecycle.TransitionRequest, after func(models.Order)) {
	order, err := tc.Manager.ApplyTransition(c.Request.Context(), req)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	events.BroadcastOrderUpdate(*order)
	if after != nil {
		after(*order)
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// actorRole reads the role the auth middleware resolved at the request
// boundary. An unknown role stays unknown; the manager rejects it.
func actorRole(c *gin.Context) lifecycle.Role {
	roleValue, _ := c.Get("role")
	role, _ := roleValue.(string)
	return lifecycle.Role(role)
}

// respondTransitionError maps the lifecycle error taxonomy to HTTP statuses.
func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, lifecycle.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, lifecycle.ErrInvalidPaymentMethod):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, lifecycle.ErrConflict):
		utils.RespondError(c, http.StatusConflict, err)
	case lifecycle.IsInvalidTransition(err):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.Printf("transition failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
