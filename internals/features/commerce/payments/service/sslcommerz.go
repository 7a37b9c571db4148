package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"

	orderModel "ilmhub_backend/internals/features/commerce/orders/model"
)

const (
	sslczSandboxURL = "https://sandbox.sslcommerz.com"
	sslczLiveURL    = "https://securepay.sslcommerz.com"
)

type SSLCommerz struct {
	StoreID     string
	StorePasswd string
	BaseURL     string
	// CallbackBase is the public URL of this API; the gateway posts back under it.
	CallbackBase string
	HTTP         *http.Client
}

func NewSSLCommerz(storeID, passwd string, live bool, callbackBase string) *SSLCommerz {
	base := sslczSandboxURL
	if live {
		base = sslczLiveURL
	}
	return &SSLCommerz{
		StoreID:      storeID,
		StorePasswd:  passwd,
		BaseURL:      base,
		CallbackBase: strings.TrimRight(callbackBase, "/"),
		HTTP:         &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *SSLCommerz) Name() string { return ProviderSSLCommerz }

type sslczInitResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

func (s *SSLCommerz) callbackURL(kind string) string {
	return s.CallbackBase + "/api/payments/sslcommerz/" + kind
}

func (s *SSLCommerz) InitSession(ctx context.Context, o orderModel.OrderModel, itemName string) (Session, error) {
	form := url.Values{}
	form.Set("store_id", s.StoreID)
	form.Set("store_passwd", s.StorePasswd)
	form.Set("total_amount", o.OrderTotalAmount.StringFixed(2))
	form.Set("currency", o.OrderCurrency)
	form.Set("tran_id", o.OrderTranID)
	form.Set("success_url", s.callbackURL("success"))
	form.Set("fail_url", s.callbackURL("fail"))
	form.Set("cancel_url", s.callbackURL("cancel"))
	form.Set("ipn_url", s.callbackURL("ipn"))

	form.Set("cus_name", o.OrderCustomerName)
	form.Set("cus_email", o.OrderCustomerEmail)
	form.Set("cus_phone", o.OrderCustomerPhone)
	form.Set("cus_add1", o.OrderShippingAddress)
	form.Set("cus_city", o.OrderCity)
	form.Set("cus_country", "Bangladesh")

	form.Set("shipping_method", "Courier")
	form.Set("ship_name", o.OrderCustomerName)
	form.Set("ship_add1", o.OrderShippingAddress)
	form.Set("ship_city", o.OrderCity)
	form.Set("ship_postcode", "1000")
	form.Set("ship_country", "Bangladesh")

	form.Set("num_of_item", fmt.Sprint(o.OrderQuantity))
	form.Set("product_name", itemName)
	form.Set("product_category", "Book")
	form.Set("product_profile", "physical-goods")
	form.Set("value_a", o.OrderID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/gwprocess/v4/api.php", strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out sslczInitResponse
	if err := s.do(req, &out); err != nil {
		return Session{}, err
	}
	if !strings.EqualFold(out.Status, "SUCCESS") || out.GatewayPageURL == "" {
		return Session{}, fmt.Errorf("%w: %s", ErrGatewayDown, out.FailedReason)
	}
	return Session{RedirectURL: out.GatewayPageURL, SessionRef: out.SessionKey}, nil
}

type sslczValidation struct {
	Status         string `json:"status"`
	TranID         string `json:"tran_id"`
	ValID          string `json:"val_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	CurrencyType   string `json:"currency_type"`
	CurrencyAmount string `json:"currency_amount"`
	CardType       string `json:"card_type"`
	BankTranID     string `json:"bank_tran_id"`
}

// Validate rejects any post whose verify_sign does not cover tran_id and
// status. A signed FAILED or CANCELLED is taken as posted; a VALID post is
// only believed after the validation API confirms the val_id.
func (s *SSLCommerz) Validate(ctx context.Context, cb Callback) (Verdict, error) {
	f := cb.Form
	raw, _ := sonic.Marshal(f)
	v := Verdict{TranID: f["tran_id"], Currency: f["currency"], Method: f["card_type"], Raw: raw}
	if v.TranID == "" {
		return v, ErrNotVerified
	}
	if !s.VerifySign(f) || !signedFields(f, "tran_id", "status") {
		return v, ErrBadSignature
	}

	switch strings.ToUpper(f["status"]) {
	case "FAILED":
		v.Status = orderModel.StatusFailed
		return v, nil
	case "CANCELLED":
		v.Status = orderModel.StatusCancelled
		return v, nil
	}

	valID := f["val_id"]
	if valID == "" {
		return v, ErrNotVerified
	}

	q := url.Values{}
	q.Set("val_id", valID)
	q.Set("store_id", s.StoreID)
	q.Set("store_passwd", s.StorePasswd)
	q.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.BaseURL+"/validator/api/validationserverAPI.php?"+q.Encode(), nil)
	if err != nil {
		return v, err
	}
	var res sslczValidation
	if err := s.do(req, &res); err != nil {
		return v, err
	}
	status := strings.ToUpper(res.Status)
	if status != "VALID" && status != "VALIDATED" {
		log.Printf("[WARN] sslcommerz val_id %s rejected: %s", valID, res.Status)
		return v, ErrNotVerified
	}
	if res.TranID != "" && res.TranID != v.TranID {
		return v, ErrNotVerified
	}

	amount, currency := res.Amount, res.Currency
	if res.CurrencyAmount != "" && res.CurrencyType != "" {
		amount, currency = res.CurrencyAmount, res.CurrencyType
	}
	v.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return v, fmt.Errorf("%w: bad amount %q", ErrNotVerified, amount)
	}
	v.Currency = currency
	v.Status = orderModel.StatusPaid
	v.PaymentRef = valID
	if res.CardType != "" {
		v.Method = res.CardType
	}
	return v, nil
}

// VerifySign checks verify_sign: md5 over the verify_key fields plus the
// md5 of the store password, sorted by key and joined as a query string.
func (s *SSLCommerz) VerifySign(f map[string]string) bool {
	keys := strings.Split(f["verify_key"], ",")
	if len(keys) == 0 || f["verify_key"] == "" {
		return false
	}
	fields := map[string]string{"store_passwd": md5hex(s.StorePasswd)}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k != "" {
			fields[k] = f[k]
		}
	}
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, k := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k + "=" + fields[k])
	}
	return md5hex(b.String()) == strings.ToLower(f["verify_sign"])
}

// signedFields reports whether every name is listed in verify_key.
func signedFields(f map[string]string, names ...string) bool {
	signed := map[string]bool{}
	for _, k := range strings.Split(f["verify_key"], ",") {
		signed[strings.TrimSpace(k)] = true
	}
	for _, n := range names {
		if !signed[n] {
			return false
		}
	}
	return true
}

func (s *SSLCommerz) do(req *http.Request, out any) error {
	res, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayDown, err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return err
	}
	if res.StatusCode >= 300 {
		return fmt.Errorf("%w: http %d", ErrGatewayDown, res.StatusCode)
	}
	return sonic.Unmarshal(body, out)
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
