package billing

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// GatewayPayment is the slice of the gateway's payment record the verify
// flow needs.
type GatewayPayment struct {
	ImpUID      string
	MerchantUID string
	Status      string // "paid" when settled
	Amount      int
}

// Gateway looks up a payment at the payment provider. Faked in tests.
type Gateway interface {
	Lookup(ctx context.Context, impUID string) (GatewayPayment, error)
}

// IamportGateway talks to an Iamport-compatible REST API: a short-lived
// access token from /users/getToken, then GET /payments/{imp_uid}.
type IamportGateway struct {
	http   *resty.Client
	key    string
	secret string
}

func NewIamportGateway(baseURL, key, secret string) *IamportGateway {
	return &IamportGateway{
		http:   resty.New().SetBaseURL(baseURL),
		key:    key,
		secret: secret,
	}
}

type iamportTokenResp struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Response struct {
		AccessToken string `json:"access_token"`
	} `json:"response"`
}

type iamportPaymentResp struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Response struct {
		ImpUID      string `json:"imp_uid"`
		MerchantUID string `json:"merchant_uid"`
		Status      string `json:"status"`
		Amount      int    `json:"amount"`
	} `json:"response"`
}

func (g *IamportGateway) token(ctx context.Context) (string, error) {
	var out iamportTokenResp
	resp, err := g.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"imp_key": g.key, "imp_secret": g.secret}).
		SetResult(&out).
		Post("/users/getToken")
	if err != nil {
		return "", fmt.Errorf("gateway token: %w", err)
	}
	if resp.IsError() || out.Code != 0 {
		return "", fmt.Errorf("gateway token: status=%d code=%d %s", resp.StatusCode(), out.Code, out.Message)
	}
	return out.Response.AccessToken, nil
}

func (g *IamportGateway) Lookup(ctx context.Context, impUID string) (GatewayPayment, error) {
	token, err := g.token(ctx)
	if err != nil {
		return GatewayPayment{}, err
	}

	var out iamportPaymentResp
	resp, err := g.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		Get("/payments/" + impUID)
	if err != nil {
		return GatewayPayment{}, fmt.Errorf("gateway lookup: %w", err)
	}
	if resp.IsError() || out.Code != 0 {
		return GatewayPayment{}, fmt.Errorf("gateway lookup: status=%d code=%d %s", resp.StatusCode(), out.Code, out.Message)
	}

	return GatewayPayment{
		ImpUID:      out.Response.ImpUID,
		MerchantUID: out.Response.MerchantUID,
		Status:      out.Response.Status,
		Amount:      out.Response.Amount,
	}, nil
}
