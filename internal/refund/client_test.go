package refund

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/electricblue/paxum-gateway/internal/config"
	"github.com/electricblue/paxum-gateway/internal/domain"
)

const approvedXML = `<?xml version="1.0"?>
<Response>
	<Environment>PRODUCTION</Environment>
	<Method>refundTransaction</Method>
	<ResponseCode>00</ResponseCode>
	<ResponseDescription>Approved or Completed Successfully</ResponseDescription>
	<Fee>0.00</Fee>
</Response>`

const declinedXML = `<?xml version="1.0"?>
<Response>
	<Environment>PRODUCTION</Environment>
	<Method>refundTransaction</Method>
	<ResponseCode>51</ResponseCode>
	<ResponseDescription>Insufficient Funds</ResponseDescription>
	<Fee>0.00</Fee>
</Response>`

func testConfig() *config.Config {
	return &config.Config{
		Email:        "merchant@example.com",
		SharedSecret: "1234567890abcdefghijklmnopqrstuv",
		Sandbox:      false,
	}
}

func paidOrder() *domain.Order {
	return &domain.Order{
		ID:            "ORD-1",
		TransactionID: "PXM-777",
		Total:         10,
		Currency:      "USD",
		Status:        domain.StatusCompleted,
	}
}

func TestRefund_Approved(t *testing.T) {
	cfg := testConfig()

	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"method":    r.PostFormValue("method"),
			"fromEmail": r.PostFormValue("fromEmail"),
			"transId":   r.PostFormValue("transId"),
			"key":       r.PostFormValue("key"),
			"sandbox":   r.PostFormValue("sandbox"),
			"return":    r.PostFormValue("return"),
		}
		fmt.Fprint(w, approvedXML)
	}))
	defer srv.Close()

	client := NewClientWithURL(cfg, srv.URL)
	record, err := client.Refund(context.Background(), paidOrder())
	if err != nil {
		t.Fatalf("refund: %v", err)
	}

	if !record.Succeeded || record.ResponseCode != "00" {
		t.Errorf("unexpected record: %+v", record)
	}
	if record.Environment != "PRODUCTION" || record.Fee != "0.00" {
		t.Errorf("response fields not parsed: %+v", record)
	}

	wantKey := fmt.Sprintf("%x", md5.Sum([]byte(cfg.SharedSecret+"PXM-777")))
	if gotForm["key"] != wantKey {
		t.Errorf("request key: got %q, want %q", gotForm["key"], wantKey)
	}
	if gotForm["method"] != "refundTransaction" || gotForm["transId"] != "PXM-777" {
		t.Errorf("request form: %v", gotForm)
	}
	if gotForm["sandbox"] != "OFF" {
		t.Errorf("sandbox must be OFF outside sandbox mode, got %q", gotForm["sandbox"])
	}
}

func TestRefund_SandboxFlag(t *testing.T) {
	cfg := testConfig()
	cfg.Sandbox = true

	var sandbox string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		sandbox = r.PostFormValue("sandbox")
		fmt.Fprint(w, approvedXML)
	}))
	defer srv.Close()

	client := NewClientWithURL(cfg, srv.URL)
	if _, err := client.Refund(context.Background(), paidOrder()); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if sandbox != "ON" {
		t.Errorf("sandbox: got %q, want ON", sandbox)
	}
}

func TestRefund_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, declinedXML)
	}))
	defer srv.Close()

	client := NewClientWithURL(testConfig(), srv.URL)
	record, err := client.Refund(context.Background(), paidOrder())

	if !errors.Is(err, domain.ErrRefundDeclined) {
		t.Fatalf("expected ErrRefundDeclined, got %v", err)
	}
	if record == nil {
		t.Fatal("declined refund should still return the record")
	}
	if record.Succeeded || record.ResponseCode != "51" {
		t.Errorf("unexpected record: %+v", record)
	}
}

func TestRefund_NotPossible(t *testing.T) {
	client := NewClient(testConfig())

	t.Run("no transaction id", func(t *testing.T) {
		o := paidOrder()
		o.TransactionID = ""
		if _, err := client.Refund(context.Background(), o); !errors.Is(err, domain.ErrRefundNotPossible) {
			t.Errorf("expected ErrRefundNotPossible, got %v", err)
		}
	})

	t.Run("no shared secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.SharedSecret = ""
		c := NewClient(cfg)
		if _, err := c.Refund(context.Background(), paidOrder()); !errors.Is(err, domain.ErrRefundNotPossible) {
			t.Errorf("expected ErrRefundNotPossible, got %v", err)
		}
	})
}

func TestRefund_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not xml at all")
	}))
	defer srv.Close()

	client := NewClientWithURL(testConfig(), srv.URL)
	if _, err := client.Refund(context.Background(), paidOrder()); err == nil {
		t.Error("expected parse error")
	}
}
