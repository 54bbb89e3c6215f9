package paypalrepo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Siyemukel/Digital-online-bookstore/util/httpx"
)

type httpRepo struct {
	clientID string
	secret   string
	base     string
	client   *http.Client
}

// NewHTTP builds the live collaborator. mode is "sandbox" or "live".
func NewHTTP(clientID, secret, mode string) Repo {
	base := "https://api.paypal.com"
	if mode == "sandbox" {
		base = "https://api.sandbox.paypal.com"
	}
	return &httpRepo{clientID: clientID, secret: secret, base: base, client: httpx.Client()}
}

func (r *httpRepo) token() (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, _ := http.NewRequest("POST", r.base+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	req.SetBasicAuth(r.clientID, r.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token failed: %s", resp.Status)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("paypal: empty access token")
	}
	return out.AccessToken, nil
}

func (r *httpRepo) CreatePayment(req CreatePaymentReq) (*CreatePaymentResp, error) {
	tok, err := r.token()
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"intent": "sale",
		"payer":  map[string]any{"payment_method": "paypal"},
		"transactions": []map[string]any{{
			"amount": map[string]any{
				"total":    req.Total.StringFixed(2),
				"currency": req.Currency,
			},
			"description": req.Description,
		}},
		"redirect_urls": map[string]any{
			"return_url": req.ReturnURL,
			"cancel_url": req.CancelURL,
		},
	}
	b, _ := json.Marshal(body)
	httpReq, _ := http.NewRequest("POST", r.base+"/v1/payments/payment", bytes.NewReader(b))
	httpReq.Header.Set("Authorization", "Bearer "+tok)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal create payment failed: %s", resp.Status)
	}

	var out struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("paypal: empty payment id")
	}

	approval := ""
	for _, l := range out.Links {
		if l.Rel == "approval_url" {
			approval = l.Href
			break
		}
	}
	if approval == "" {
		return nil, errors.New("paypal: no approval url")
	}

	return &CreatePaymentResp{PaymentID: out.ID, ApprovalURL: approval}, nil
}

func (r *httpRepo) ExecutePayment(paymentID, payerID string) (bool, error) {
	tok, err := r.token()
	if err != nil {
		return false, err
	}

	b, _ := json.Marshal(map[string]string{"payer_id": payerID})
	httpReq, _ := http.NewRequest("POST",
		fmt.Sprintf("%s/v1/payments/payment/%s/execute", r.base, paymentID),
		bytes.NewReader(b))
	httpReq.Header.Set("Authorization", "Bearer "+tok)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return false, fmt.Errorf("paypal execute payment failed: %s", resp.Status)
	}

	var out struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, err
	}
	return out.State == "approved", nil
}
