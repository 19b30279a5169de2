package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mystery_boxes/internal/adapter/http/handlers/mocks"
	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/usecase"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newCheckoutRouter(t *testing.T) (*gin.Engine, *mocks.MockICheckoutUseCase, *mocks.MockIConfirmationUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	checkout := mocks.NewMockICheckoutUseCase(ctrl)
	confirmation := mocks.NewMockIConfirmationUseCase(ctrl)
	h := NewCheckoutHandler(checkout, confirmation, nil)

	r := gin.New()
	r.POST("/api/create-payment-intent", h.CreatePaymentIntent)
	r.POST("/api/payment-webhook", h.PaymentWebhook)
	return r, checkout, confirmation
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutHandler_CreatePaymentIntent(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		r, _, _ := newCheckoutRouter(t)
		if w := postJSON(r, "/api/create-payment-intent", "{"); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("boxes not an array", func(t *testing.T) {
		r, _, _ := newCheckoutRouter(t)
		w := postJSON(r, "/api/create-payment-intent", `{"boxes":"A"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["error"] != "boxes must be a non-empty array" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("no valid boxes", func(t *testing.T) {
		r, checkout, _ := newCheckoutRouter(t)
		checkout.EXPECT().CreatePaymentAttempt(gomock.Any(), []string{"a1", "!!"}).Return(usecase.CheckoutResult{}, usecase.ErrNoValidBoxes)

		w := postJSON(r, "/api/create-payment-intent", `{"boxes":["a1","!!"]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["error"] != "No valid boxes" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("sold conflict", func(t *testing.T) {
		r, checkout, _ := newCheckoutRouter(t)
		checkout.EXPECT().CreatePaymentAttempt(gomock.Any(), []string{"A", "B"}).
			Return(usecase.CheckoutResult{}, &usecase.ConflictError{Reason: usecase.ConflictSold, IDs: []string{"A"}})

		w := postJSON(r, "/api/create-payment-intent", `{"boxes":["A","B"]}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["error"] != "Already sold: A" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("gateway failure", func(t *testing.T) {
		r, checkout, _ := newCheckoutRouter(t)
		checkout.EXPECT().CreatePaymentAttempt(gomock.Any(), gomock.Any()).
			Return(usecase.CheckoutResult{}, errors.Join(usecase.ErrPaymentGateway, errors.New("card_declined")))

		w := postJSON(r, "/api/create-payment-intent", `{"boxes":["A"]}`)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, checkout, _ := newCheckoutRouter(t)
		expires := time.Date(2026, 4, 2, 15, 14, 5, 0, time.UTC)
		checkout.EXPECT().CreatePaymentAttempt(gomock.Any(), []string{"A", "1"}).Return(usecase.CheckoutResult{
			ClientSecret:    "pi_1_secret",
			PaymentIntentID: "pi_1",
			PriceUSD:        3,
			Amount:          300,
			Currency:        "usd",
			Boxes:           []string{"A"},
			HoldExpiresAt:   expires,
		}, nil)

		w := postJSON(r, "/api/create-payment-intent", `{"boxes":["A",1]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["clientSecret"] != "pi_1_secret" || body["priceUsd"] != float64(3) || body["amount"] != float64(300) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestCheckoutHandler_PaymentWebhook(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, _, confirmation := newCheckoutRouter(t)
		confirmation.EXPECT().HandleWebhook(gomock.Any(), []byte(`{"id":"evt_1"}`), gomock.Any()).
			Return(usecase.ConfirmationResult{EventType: entities.PaymentEventSucceeded, PaymentIntentID: "pi_1"}, nil)

		w := postJSON(r, "/api/payment-webhook", `{"id":"evt_1"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["received"] != true || body["duplicate"] != false {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		r, _, confirmation := newCheckoutRouter(t)
		confirmation.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(usecase.ConfirmationResult{EventType: entities.PaymentEventSucceeded, Duplicate: true}, nil)

		w := postJSON(r, "/api/payment-webhook", `{}`)
		if w.Code != http.StatusOK || decodeBody(t, w)["duplicate"] != true {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"bad signature", interfaces.ErrInvalidWebhook, http.StatusBadRequest},
		{"unknown attempt", usecase.ErrAttemptNotFound, http.StatusNotFound},
		{"metadata mismatch", usecase.ErrMetadataMismatch, http.StatusBadRequest},
		{"hold lost", interfaces.ErrHoldLost, http.StatusConflict},
		{"store failure", errors.New("throttled"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _, confirmation := newCheckoutRouter(t)
			confirmation.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), gomock.Any()).Return(usecase.ConfirmationResult{}, tc.err)

			if w := postJSON(r, "/api/payment-webhook", `{}`); w.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, w.Code)
			}
		})
	}
}

func TestCheckoutHandler_CreatePaymentIntentStoreBusy(t *testing.T) {
	r, checkout, _ := newCheckoutRouter(t)
	checkout.EXPECT().CreatePaymentAttempt(gomock.Any(), []string{"A"}).
		Return(usecase.CheckoutResult{}, fmt.Errorf("hold boxes: %w", interfaces.ErrStoreConflict))

	w := postJSON(r, "/api/create-payment-intent", `{"boxes":["A"]}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["code"] != "STORE_BUSY" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
