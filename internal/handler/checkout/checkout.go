// File: internal/handler/checkout/checkout.go
package checkout

import (
	"context"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"getunitycodes/internal/api"
	"getunitycodes/internal/events"
	"getunitycodes/internal/lists"
	"getunitycodes/internal/mailer"
	"getunitycodes/internal/middleware"
	"getunitycodes/internal/pricing"
	"getunitycodes/internal/worker"

	"github.com/labstack/echo/v4"
)

var timeNow = time.Now

const jobTimeout = 30 * time.Second

// CheckoutHandler 結帳：計算總額、清空購物車，非同步寄出發票並發送 order.placed
// @Summary     結帳
// @Description payment_method 必須是 Credit Card、PayPal、Google Pay 或 Apple Pay
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Param       body body     api.CheckoutRequest true "收件與付款資料"
// @Success     200  {object} api.CheckoutResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /checkout [post]
func CheckoutHandler(cart *lists.Store, m mailer.Mailer, pub events.Publisher, jobs worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		}
		var req api.CheckoutRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}
		if !slices.Contains(api.PaymentMethods, req.PaymentMethod) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Error: "payment_method must be one of: " + strings.Join(api.PaymentMethods, ", "),
			})
		}

		ctx := c.Request().Context()
		entries, err := cart.Items(ctx, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		if len(entries) == 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "cart is empty"})
		}

		total := lists.Total(entries)
		order := api.Order{
			UserID:        claims.UserID,
			Name:          strings.TrimSpace(req.Name),
			Email:         strings.TrimSpace(req.Email),
			Address:       strings.TrimSpace(req.Address),
			Items:         entries,
			Total:         pricing.Format(total),
			PaymentMethod: req.PaymentMethod,
			PlacedAt:      timeNow().UTC(),
		}
		if err := cart.Clear(ctx, claims.UserID); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}

		invoice := mailer.InvoiceMessage(order.Name, order.Email, entries, total, order.PaymentMethod)
		jobs.Submit(func() {
			jctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := m.Send(jctx, invoice); err != nil {
				log.Printf("send invoice to %s: %v", invoice.To, err)
			}
			if err := pub.Publish(jctx, events.TopicOrderPlaced, strconv.Itoa(order.UserID), order); err != nil {
				log.Printf("publish %s: %v", events.TopicOrderPlaced, err)
			}
		})

		return c.JSON(http.StatusOK, api.CheckoutResponse{Message: "Order placed successfully", Order: order})
	}
}
