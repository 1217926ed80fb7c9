package payment

import (
	razorpay "github.com/razorpay/razorpay-go"

	"mentorhub/internal/config"
)

const gatewayTimeoutSeconds = 10

// razorpayGateway adapts the Razorpay SDK to the Gateway seam. All calls go
// out with a bounded timeout; nothing here blocks indefinitely.
type razorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(cfg config.RazorpayConfig) Gateway {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	client.SetTimeout(gatewayTimeoutSeconds)
	return &razorpayGateway{client: client}
}

func (g *razorpayGateway) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	return g.client.Order.Create(data, nil)
}

func (g *razorpayGateway) FetchPayment(paymentID string) (map[string]interface{}, error) {
	return g.client.Payment.Fetch(paymentID, nil, nil)
}
