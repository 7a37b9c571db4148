package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderModel "ilmhub_backend/internals/features/commerce/orders/model"
)

func fakeSSLCommerz(t *testing.T, validation string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/gwprocess/v4/api.php", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("store_passwd") != "secret" {
			_, _ = w.Write([]byte(`{"status":"FAILED","failedreason":"Store Credential Error"}`))
			return
		}
		assert.Equal(t, "900.00", r.PostForm.Get("total_amount"))
		assert.Equal(t, "https://api.ilmhub.test/api/payments/sslcommerz/ipn", r.PostForm.Get("ipn_url"))
		_, _ = w.Write([]byte(`{"status":"SUCCESS","sessionkey":"SK1","GatewayPageURL":"https://sandbox.sslcommerz.com/pay/SK1"}`))
	})
	mux.HandleFunc("/validator/api/validationserverAPI.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "val_1", r.URL.Query().Get("val_id"))
		_, _ = w.Write([]byte(validation))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// signed adds verify_key over every field and a verify_sign made with "secret".
func signed(f map[string]string) map[string]string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := []string{"store_passwd=" + md5hex("secret")}
	for _, k := range keys {
		parts = append(parts, k+"="+f[k])
	}
	sort.Strings(parts)
	out := map[string]string{"verify_key": strings.Join(keys, ","), "verify_sign": md5hex(strings.Join(parts, "&"))}
	for k, v := range f {
		out[k] = v
	}
	return out
}

func testOrder() orderModel.OrderModel {
	return orderModel.OrderModel{
		OrderID: uuid.New(), OrderTranID: "ILM-1", OrderQuantity: 2,
		OrderUnitPrice: decimal.NewFromInt(450), OrderTotalAmount: decimal.NewFromInt(900), OrderCurrency: "BDT",
		OrderCustomerName: "Amina", OrderCustomerEmail: "amina@example.com", OrderShippingAddress: "House 1", OrderCity: "Dhaka",
	}
}

func TestSSLCommerz_InitSession(t *testing.T) {
	srv := fakeSSLCommerz(t, "")
	gw := NewSSLCommerz("store", "secret", false, "https://api.ilmhub.test/")
	gw.BaseURL = srv.URL

	sess, err := gw.InitSession(context.Background(), testOrder(), "Riyad as-Salihin")
	require.NoError(t, err)
	assert.Equal(t, "SK1", sess.SessionRef)
	assert.Equal(t, "https://sandbox.sslcommerz.com/pay/SK1", sess.RedirectURL)

	gw.StorePasswd = "wrong"
	_, err = gw.InitSession(context.Background(), testOrder(), "x")
	assert.ErrorIs(t, err, ErrGatewayDown)
}

func TestSSLCommerz_ValidateAgainstAPI(t *testing.T) {
	srv := fakeSSLCommerz(t, `{"status":"VALID","tran_id":"ILM-1","val_id":"val_1","amount":"900.00","currency":"BDT","card_type":"BKASH-BKash"}`)
	gw := NewSSLCommerz("store", "secret", false, "")
	gw.BaseURL = srv.URL

	v, err := gw.Validate(context.Background(), Callback{Form: signed(map[string]string{
		"tran_id": "ILM-1", "val_id": "val_1", "status": "VALID", "amount": "900.00",
	})})
	require.NoError(t, err)
	assert.Equal(t, orderModel.StatusPaid, v.Status)
	assert.Equal(t, "val_1", v.PaymentRef)
	assert.Equal(t, "BKASH-BKash", v.Method)
	assert.True(t, v.MatchesOrder(testOrder()))

	short := testOrder()
	short.OrderTotalAmount = decimal.NewFromInt(1000)
	assert.False(t, v.MatchesOrder(short))
}

func TestSSLCommerz_ValidateRejected(t *testing.T) {
	srv := fakeSSLCommerz(t, `{"status":"INVALID_TRANSACTION"}`)
	gw := NewSSLCommerz("store", "secret", false, "")
	gw.BaseURL = srv.URL

	_, err := gw.Validate(context.Background(), Callback{Form: signed(map[string]string{
		"tran_id": "ILM-1", "val_id": "val_1", "status": "VALID",
	})})
	assert.ErrorIs(t, err, ErrNotVerified)

	_, err = gw.Validate(context.Background(), Callback{Form: signed(map[string]string{"tran_id": "ILM-1", "status": "VALID"})})
	assert.ErrorIs(t, err, ErrNotVerified, "no val_id")
}

func TestSSLCommerz_FailAndCancelSkipLookup(t *testing.T) {
	gw := NewSSLCommerz("store", "secret", false, "")
	gw.BaseURL = "http://127.0.0.1:1"

	v, err := gw.Validate(context.Background(), Callback{Form: signed(map[string]string{"tran_id": "ILM-1", "status": "FAILED"})})
	require.NoError(t, err)
	assert.Equal(t, orderModel.StatusFailed, v.Status)

	v, err = gw.Validate(context.Background(), Callback{Form: signed(map[string]string{"tran_id": "ILM-1", "status": "CANCELLED"})})
	require.NoError(t, err)
	assert.Equal(t, orderModel.StatusCancelled, v.Status)
}

func TestSSLCommerz_UnsignedPostsRejected(t *testing.T) {
	gw := NewSSLCommerz("store", "secret", false, "")
	gw.BaseURL = "http://127.0.0.1:1"

	for _, status := range []string{"FAILED", "CANCELLED", "VALID"} {
		_, err := gw.Validate(context.Background(), Callback{Form: map[string]string{"tran_id": "ILM-1", "status": status}})
		assert.ErrorIs(t, err, ErrBadSignature, status)
	}

	// signed with the wrong store password
	forged := signed(map[string]string{"tran_id": "ILM-1", "status": "FAILED"})
	forged["verify_sign"] = md5hex("status=FAILED&store_passwd=" + md5hex("guess") + "&tran_id=ILM-1")
	_, err := gw.Validate(context.Background(), Callback{Form: forged})
	assert.ErrorIs(t, err, ErrBadSignature)

	// a valid signature that leaves status out cannot be replayed as a failure
	partial := signed(map[string]string{"tran_id": "ILM-1"})
	partial["status"] = "FAILED"
	_, err = gw.Validate(context.Background(), Callback{Form: partial})
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestSSLCommerz_VerifySign(t *testing.T) {
	gw := NewSSLCommerz("store", "secret", false, "")
	form := map[string]string{
		"tran_id":    "ILM-1",
		"val_id":     "val_1",
		"amount":     "900.00",
		"verify_key": "amount,tran_id,val_id",
	}
	form["verify_sign"] = md5hex("amount=900.00&store_passwd=" + md5hex("secret") + "&tran_id=ILM-1&val_id=val_1")
	assert.True(t, gw.VerifySign(form))

	form["amount"] = "1.00"
	assert.False(t, gw.VerifySign(form))

	_, err := gw.Validate(context.Background(), Callback{Form: map[string]string{
		"tran_id": "ILM-1", "val_id": "val_1", "status": "VALID", "amount": "1.00",
		"verify_key": "amount,tran_id,val_id", "verify_sign": form["verify_sign"],
	}})
	assert.ErrorIs(t, err, ErrBadSignature)
}
