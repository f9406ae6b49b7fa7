// Package dock talks to the acquiring system's REST API and keeps local
// merchant, transaction and settlement tables in sync with it.
package dock

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Client is a thin wrapper over the acquirer's HTTP API.
type Client struct {
	baseURL string
	http    *resty.Client
}

func NewClient(baseURL, apiToken string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	c.http = resty.New().
		SetHeader("Accept", "application/json").
		SetAuthToken(apiToken).
		SetTimeout(120 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r.StatusCode() == 429 || (r.StatusCode() >= 500 && r.StatusCode() <= 504)
		})

	return c
}

// Wire types as returned by the acquirer.

type MerchantRecord struct {
	ID        string `json:"id"`
	LegalName string `json:"legalName"`
	TradeName string `json:"tradeName"`
	Document  string `json:"document"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
	MCC       string `json:"mcc"`
}

type TransactionRecord struct {
	NSU         string          `json:"nsu"`
	MerchantID  string          `json:"merchantId"`
	TerminalID  string          `json:"terminalId"`
	CardBrand   string          `json:"cardBrand"`
	PaymentType string          `json:"paymentType"`
	Status      string          `json:"status"`
	CaptureMode string          `json:"captureMode"`
	EntryMode   string          `json:"entryMode"`
	Amount      decimal.Decimal `json:"amount"`
	NetAmount   decimal.Decimal `json:"netAmount"`
	Cycle       string          `json:"cycle"`
	PayoutID    string          `json:"payoutId"`
	CapturedAt  time.Time       `json:"capturedAt"`
}

type SettlementRecord struct {
	PayoutID    string          `json:"payoutId"`
	MerchantID  string          `json:"merchantId"`
	GrossAmount decimal.Decimal `json:"grossAmount"`
	FeeAmount   decimal.Decimal `json:"feeAmount"`
	NetAmount   decimal.Decimal `json:"netAmount"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paidAt"`
}

type page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor"`
}

func get[T any](c *Client, endpoint string, params map[string]string) ([]T, error) {
	var all []T
	cursor := ""

	for {
		req := c.http.R().SetQueryParams(params)
		if cursor != "" {
			req.SetQueryParam("cursor", cursor)
		}

		var body page[T]
		resp, err := req.SetResult(&body).Get(c.baseURL + endpoint)
		if err != nil {
			return nil, fmt.Errorf("dock request %s failed: %w", endpoint, err)
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("dock request %s returned %d: %s", endpoint, resp.StatusCode(), resp.String())
		}

		all = append(all, body.Items...)
		if body.NextCursor == "" {
			return all, nil
		}
		cursor = body.NextCursor
	}
}

// Merchants lists merchants changed since the given instant.
func (c *Client) Merchants(updatedSince time.Time) ([]MerchantRecord, error) {
	return get[MerchantRecord](c, "/v2/merchants", map[string]string{
		"updatedSince": updatedSince.UTC().Format(time.RFC3339),
	})
}

// Transactions lists transactions captured inside [start, end].
func (c *Client) Transactions(start, end time.Time) ([]TransactionRecord, error) {
	return get[TransactionRecord](c, "/v2/transactions", map[string]string{
		"capturedFrom": start.UTC().Format(time.RFC3339),
		"capturedTo":   end.UTC().Format(time.RFC3339),
	})
}

// Settlements lists payouts created on the given calendar date.
func (c *Client) Settlements(date time.Time) ([]SettlementRecord, error) {
	return get[SettlementRecord](c, "/v2/settlements", map[string]string{
		"date": date.Format("2006-01-02"),
	})
}
