package checkout

type StartCheckoutReq struct {
	Method  string `json:"method" validate:"required,oneof=pickup delivery"`
	Address string `json:"address"`
}

type ConfirmCheckoutReq struct {
	PaymentID string `json:"payment_id" validate:"required"`
	PayerID   string `json:"payer_id" validate:"required"`
}

type CancelCheckoutReq struct {
	PaymentID string `json:"payment_id" validate:"required"`
}
