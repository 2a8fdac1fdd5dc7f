package refund

import (
	"context"
	"crypto/md5"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/electricblue/paxum-gateway/internal/config"
	"github.com/electricblue/paxum-gateway/internal/domain"
	"github.com/electricblue/paxum-gateway/internal/metrics"
)

// DefaultAPIURL is the processor's payment API endpoint.
const DefaultAPIURL = "https://secure.paxum.com/payment/api/paymentAPI.php"

// responseCodeOK is the only ResponseCode the processor defines as success.
const responseCodeOK = "00"

// apiResponse mirrors the XML envelope the payment API returns.
type apiResponse struct {
	XMLName             xml.Name `xml:"Response"`
	Environment         string   `xml:"Environment"`
	Method              string   `xml:"Method"`
	ResponseCode        string   `xml:"ResponseCode"`
	ResponseDescription string   `xml:"ResponseDescription"`
	Fee                 string   `xml:"Fee"`
}

// Client issues refund requests to the processor API.
type Client struct {
	cfg    *config.Config
	http   *http.Client
	apiURL string
}

// NewClient creates a refund client with a bounded request timeout.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		apiURL: DefaultAPIURL,
	}
}

// NewClientWithURL is NewClient pointed at a non-default endpoint (tests,
// staging).
func NewClientWithURL(cfg *config.Config, apiURL string) *Client {
	c := NewClient(cfg)
	c.apiURL = apiURL
	return c
}

// CanRefund reports whether a refund request can be built for the order: it
// needs the processor transaction id and a configured shared secret.
func (c *Client) CanRefund(o *domain.Order) bool {
	return o != nil && o.TransactionID != "" && c.cfg.SharedSecret != ""
}

// Refund asks the processor to refund the order's transaction. The request
// is keyed with md5(secret + transaction id) as the API requires. A refund
// record is always returned when the API answered, whatever the response
// code; only code "00" counts as success, anything else yields
// domain.ErrRefundDeclined.
func (c *Client) Refund(ctx context.Context, o *domain.Order) (*domain.Refund, error) {
	if !c.CanRefund(o) {
		metrics.RefundsTotal.WithLabelValues("not_possible").Inc()
		return nil, domain.ErrRefundNotPossible
	}

	key := fmt.Sprintf("%x", md5.Sum([]byte(c.cfg.SharedSecret+o.TransactionID)))

	// The sandbox flag is always sent, ON or OFF, never left unset.
	sandbox := "OFF"
	if c.cfg.Sandbox {
		sandbox = "ON"
	}

	form := url.Values{}
	form.Set("method", "refundTransaction")
	form.Set("fromEmail", c.cfg.Email)
	form.Set("transId", o.TransactionID)
	form.Set("key", key)
	form.Set("sandbox", sandbox)
	form.Set("return", "200")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build refund request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RefundsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("refund request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RefundsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read refund response: %w", err)
	}

	var api apiResponse
	if err := xml.Unmarshal(body, &api); err != nil {
		metrics.RefundsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("parse refund response: %w", err)
	}

	record := &domain.Refund{
		ID:                  uuid.NewString(),
		OrderID:             o.ID,
		TransactionID:       o.TransactionID,
		Environment:         api.Environment,
		ResponseCode:        api.ResponseCode,
		ResponseDescription: api.ResponseDescription,
		Fee:                 api.Fee,
		Succeeded:           api.ResponseCode == responseCodeOK,
		RequestedAt:         time.Now().UTC(),
	}

	if !record.Succeeded {
		metrics.RefundsTotal.WithLabelValues("declined").Inc()
		return record, fmt.Errorf("%w: code %s (%s)",
			domain.ErrRefundDeclined, api.ResponseCode, api.ResponseDescription)
	}

	metrics.RefundsTotal.WithLabelValues("success").Inc()
	return record, nil
}
