package paypalrepo

import "github.com/shopspring/decimal"

type CreatePaymentReq struct {
	Total       decimal.Decimal
	Currency    string
	Description string
	ReturnURL   string
	CancelURL   string
}

type CreatePaymentResp struct {
	PaymentID   string
	ApprovalURL string
}

// Repo is the two-phase payment collaborator: create a payment the user
// approves out-of-band, then execute it with the payer id PayPal hands back.
type Repo interface {
	CreatePayment(req CreatePaymentReq) (*CreatePaymentResp, error)
	ExecutePayment(paymentID, payerID string) (approved bool, err error)
}
