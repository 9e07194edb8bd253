package order

import "encoding/json"

// CreateOrderRequest payload for checkout. The payment status is asserted by
// the client; anything but "Success" rejects the order once the product and
// its stock have been resolved, before any write.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	ProductID       string      `json:"productId"       example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	ShippingAddress string      `json:"shippingAddress" example:"221B Baker Street, London"`
	PhoneNumber     string      `json:"phoneNumber"     example:"+44 20 7946 0958"`
	TotalAmount     json.Number `json:"totalAmount"     swaggertype:"number" example:"499.00"`
	PaymentStatus   string      `json:"paymentStatus"   example:"Success"`
}

// UpdateStatusRequest payload for advancing an order through its lifecycle.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"Shipped"`
}
