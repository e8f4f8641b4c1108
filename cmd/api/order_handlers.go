package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrovia/agrovia/internal/auth"
	"github.com/agrovia/agrovia/internal/events"
	"github.com/agrovia/agrovia/internal/httpx"
	"github.com/agrovia/agrovia/internal/order"
	"github.com/agrovia/agrovia/internal/policy"
	"github.com/agrovia/agrovia/internal/product"
)

const defaultPaymentMethod = "Cash on Delivery"

// createOrderHandler re-prices the submission against the live catalog
// before accepting it: every product must exist, the submitted unit prices
// must match the current listing, stock must cover the quantities, and the
// caller's total must equal items + tax + shipping. Line items snapshot the
// product (title, price, image, owning farmer) at this moment and are never
// refreshed afterwards.
func createOrderHandler(orders order.Repository, products product.Repository, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		success := false
		defer func() { httpx.RecordOrderOperation("create", success) }()

		var req order.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		tax, ok := parseMoney(c, req.TaxPrice, "tax_price")
		if !ok {
			return
		}
		shipping, ok := parseMoney(c, req.ShippingPrice, "shipping_price")
		if !ok {
			return
		}
		total, ok := parseMoney(c, req.TotalPrice, "total_price")
		if !ok {
			return
		}

		actor := auth.CurrentUser(c)
		itemsTotal := decimal.Zero
		items := make([]order.Item, 0, len(req.Items))
		for _, line := range req.Items {
			p, err := products.GetByID(c.Request.Context(), line.ProductID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "product not found: " + line.ProductID})
				return
			}
			quoted, err := decimal.NewFromString(line.Price)
			if err != nil || quoted.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
				return
			}
			if !quoted.Equal(p.Price) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price changed for " + p.Title + ", please re-submit"})
				return
			}
			if p.Stock < line.Quantity {
				c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock for " + p.Title})
				return
			}
			image := ""
			if len(p.Images) > 0 {
				image = p.Images[0]
			}
			items = append(items, order.Item{
				ID:        uuid.NewString(),
				ProductID: p.ID,
				FarmerID:  p.FarmerID,
				Title:     p.Title,
				Quantity:  line.Quantity,
				Price:     p.Price,
				Image:     image,
			})
			itemsTotal = itemsTotal.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		if expected := itemsTotal.Add(tax).Add(shipping); !expected.Equal(total) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "total price does not match items plus tax and shipping"})
			return
		}

		method := req.PaymentMethod
		if method == "" {
			method = defaultPaymentMethod
		}
		o := &order.Order{
			ID:              uuid.NewString(),
			BuyerID:         actor.ID,
			Items:           items,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   method,
			TaxPrice:        tax,
			ShippingPrice:   shipping,
			TotalPrice:      total,
			Status:          order.StatusPending,
		}
		if err := orders.Create(c.Request.Context(), o); err != nil {
			if err == order.ErrInsufficientStock {
				c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create order"})
			return
		}
		created, err := orders.GetByID(c.Request.Context(), o.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create order"})
			return
		}
		success = true
		pub.Publish(c.Request.Context(), events.OrderEvent{
			Type:    events.TypeOrderCreated,
			OrderID: created.ID,
			BuyerID: created.BuyerID,
			Farmers: created.FarmerIDs(),
			Status:  string(created.Status),
			Total:   created.TotalPrice.String(),
		})
		c.JSON(http.StatusCreated, created)
	}
}

func getOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !policy.CanViewOrder(auth.CurrentUser(c), o) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to view this order"})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func myOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.ListByBuyer(c.Request.Context(), auth.CurrentUser(c).ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// farmerOrdersHandler lists every order containing at least one of the
// farmer's line items, matched on the snapshot farmer ID.
func farmerOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.ListByFarmer(c.Request.Context(), auth.CurrentUser(c).ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// payOrderHandler records the payment result. Only the buyer who placed the
// order or an admin may mark it paid.
func payOrderHandler(orders order.Repository, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.PayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		o, err := orders.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !policy.CanMarkPaid(auth.CurrentUser(c), o) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to pay this order"})
			return
		}
		res := order.PaymentResult{
			ID:           req.ID,
			Status:       req.Status,
			UpdateTime:   req.UpdateTime,
			EmailAddress: req.EmailAddress,
		}
		if err := orders.MarkPaid(c.Request.Context(), o.ID, res); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order"})
			return
		}
		updated, err := orders.GetByID(c.Request.Context(), o.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order"})
			return
		}
		pub.Publish(c.Request.Context(), events.OrderEvent{
			Type:    events.TypeOrderPaid,
			OrderID: updated.ID,
			BuyerID: updated.BuyerID,
			Farmers: updated.FarmerIDs(),
			Status:  string(updated.Status),
			Total:   updated.TotalPrice.String(),
		})
		c.JSON(http.StatusOK, updated)
	}
}

// orderStatusHandler drives the fulfilment state machine. Only an admin or a
// member farmer may transition, and only along the forward path; entering
// delivered stamps the delivery and payment bookkeeping.
func orderStatusHandler(orders order.Repository, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		success := false
		defer func() { httpx.RecordOrderOperation("status", success) }()

		var req order.StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !order.ValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		o, err := orders.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !policy.CanMutateOrderStatus(auth.CurrentUser(c), o) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to manage this order"})
			return
		}
		if !policy.CanTransition(o.Status, req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status transition from " + string(o.Status) + " to " + string(req.Status)})
			return
		}
		if err := orders.SetStatus(c.Request.Context(), o.ID, req.Status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order"})
			return
		}
		updated, err := orders.GetByID(c.Request.Context(), o.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order"})
			return
		}
		success = true
		pub.Publish(c.Request.Context(), events.OrderEvent{
			Type:    events.TypeOrderStatusChanged,
			OrderID: updated.ID,
			BuyerID: updated.BuyerID,
			Farmers: updated.FarmerIDs(),
			Status:  string(updated.Status),
			Total:   updated.TotalPrice.String(),
		})
		c.JSON(http.StatusOK, updated)
	}
}

// parseMoney parses an optional decimal field; empty means zero.
func parseMoney(c *gin.Context, s, field string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " must be a non-negative number"})
		return decimal.Zero, false
	}
	return d, true
}
