package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heyireeh/storefront-api/internal/auth"
	"github.com/heyireeh/storefront-api/internal/httpx"
	"github.com/heyireeh/storefront-api/internal/order"
)

// createOrderHandler places a single-unit order. Failure precedence is fixed:
// unknown product, then exhausted stock, then a payment status other than
// "Success". The stock decrement commits atomically with the order row, and a
// replayed Idempotency-Key returns the order from the first attempt without
// debiting stock again.
//
//	@Summary  Create an order
//	@Tags     orders
//	@Accept   json
//	@Produce  json
//	@Param    Idempotency-Key header string false "checkout attempt key"
//	@Param    body body order.CreateOrderRequest true "checkout payload"
//	@Success  201 {object} order.Order
//	@Failure  400 {object} product.HTTPError
//	@Failure  404 {object} product.HTTPError
//	@Security BearerAuth
//	@Router   /orders [post]
func createOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.ProductID == "" || req.ShippingAddress == "" {
			fail(c, http.StatusBadRequest, "productId and shippingAddress are required")
			return
		}

		// The claimed total becomes the price snapshot when present; the
		// current product price is the fallback.
		snapshotPrice := ""
		if req.TotalAmount != "" {
			total, err := decimal.NewFromString(req.TotalAmount.String())
			if err != nil || !total.IsPositive() {
				fail(c, http.StatusBadRequest, "invalid totalAmount")
				return
			}
			snapshotPrice = total.StringFixed(2)
		}

		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			key = uuid.NewString()
		}

		o := &order.Order{
			ID:              uuid.NewString(),
			UserID:          c.GetString(httpx.CtxUserID),
			Product:         order.Snapshot{ProductID: req.ProductID, Price: snapshotPrice},
			ShippingAddress: req.ShippingAddress,
			PhoneNumber:     req.PhoneNumber,
			Status:          order.StatusProcessing,
			PaymentStatus:   req.PaymentStatus,
			IdempotencyKey:  key,
		}
		created, err := orders.Create(c.Request.Context(), o)
		switch err {
		case nil:
			c.JSON(http.StatusCreated, created)
		case order.ErrProductNotFound:
			fail(c, http.StatusNotFound, "product not found")
		case order.ErrOutOfStock:
			fail(c, http.StatusBadRequest, "product is out of stock")
		case order.ErrPaymentRejected:
			fail(c, http.StatusBadRequest, "payment failed, order not created")
		default:
			fail(c, http.StatusInternalServerError, "could not create order")
		}
	}
}

// myOrdersHandler lists the caller's own orders, newest first.
//
//	@Summary  List my orders
//	@Tags     orders
//	@Produce  json
//	@Success  200 {array} order.Order
//	@Security BearerAuth
//	@Router   /orders/myorders [get]
func myOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.ListByUser(c.Request.Context(), c.GetString(httpx.CtxUserID))
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not list orders")
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// getOrderHandler returns one order. Only the owner or an admin may see it.
//
//	@Summary  Get an order
//	@Tags     orders
//	@Produce  json
//	@Param    id path string true "order id"
//	@Success  200 {object} order.Order
//	@Failure  403 {object} product.HTTPError
//	@Failure  404 {object} product.HTTPError
//	@Security BearerAuth
//	@Router   /orders/{id} [get]
func getOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.GetByID(c.Request.Context(), c.Param("id"))
		if err == order.ErrNotFound {
			fail(c, http.StatusNotFound, "order not found")
			return
		}
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not load order")
			return
		}
		uid := c.GetString(httpx.CtxUserID)
		if o.UserID != uid && c.GetString(httpx.CtxRole) != auth.RoleAdmin {
			fail(c, http.StatusForbidden, "not authorized to view this order")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// listOrdersHandler is the admin view of every order.
//
//	@Summary  List all orders
//	@Tags     orders
//	@Produce  json
//	@Success  200 {array} order.Order
//	@Security BearerAuth
//	@Router   /orders [get]
func listOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.ListAll(c.Request.Context())
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not list orders")
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// updateOrderStatusHandler advances an order through its lifecycle, admin only.
//
//	@Summary  Update order status
//	@Tags     orders
//	@Accept   json
//	@Produce  json
//	@Param    id   path string true "order id"
//	@Param    body body order.UpdateStatusRequest true "target status"
//	@Success  200 {object} order.Order
//	@Failure  400 {object} product.HTTPError
//	@Failure  404 {object} product.HTTPError
//	@Security BearerAuth
//	@Router   /orders/{id}/status [put]
func updateOrderStatusHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		next, ok := order.ParseStatus(req.Status)
		if !ok {
			fail(c, http.StatusBadRequest, "unknown status")
			return
		}
		o, err := orders.GetByID(c.Request.Context(), c.Param("id"))
		if err == order.ErrNotFound {
			fail(c, http.StatusNotFound, "order not found")
			return
		}
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not load order")
			return
		}
		if !o.Status.CanTransitionTo(next) {
			fail(c, http.StatusBadRequest, "invalid status transition")
			return
		}
		if err := orders.UpdateStatus(c.Request.Context(), o.ID, o.Status, next); err != nil {
			// the status moved under us; the stale predicate matched nothing
			fail(c, http.StatusConflict, "order status changed, retry")
			return
		}
		o.Status = next
		c.JSON(http.StatusOK, o)
	}
}
