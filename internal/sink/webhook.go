package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"tradesim/internal/engine"
)

// Webhook posts a compact JSON summary of a finished run to a single URL.
type Webhook struct {
	client *resty.Client
	url    string
}

func NewWebhook(url string) *Webhook {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Webhook{client: client, url: url}
}

type webhookPayload struct {
	TotalTrades  int                        `json:"totalTrades"`
	WinRate      decimal.Decimal            `json:"winRate"`
	PnL          decimal.Decimal            `json:"pnl"`
	MaxDrawdown  decimal.Decimal            `json:"maxDrawdown"`
	SharpeRatio  decimal.Decimal            `json:"sharpeRatio"`
	SortinoRatio decimal.Decimal            `json:"sortinoRatio"`
	ProfitFactor decimal.Decimal            `json:"profitFactor"`
	Monthly      map[string]decimal.Decimal `json:"monthlyReturns"`
}

func (w *Webhook) Deliver(ctx context.Context, res *engine.Result) error {
	body, err := json.Marshal(webhookPayload{
		TotalTrades:  res.Metrics.TotalTrades,
		WinRate:      res.Metrics.WinRate,
		PnL:          res.Metrics.PnL,
		MaxDrawdown:  res.Metrics.MaxDrawdown,
		SharpeRatio:  res.Metrics.SharpeRatio,
		SortinoRatio: res.Metrics.SortinoRatio,
		ProfitFactor: res.Metrics.ProfitFactor,
		Monthly:      res.Metrics.MonthlyReturns,
	})
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", ErrDelivery, err)
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: webhook returned %s", ErrDelivery, resp.Status())
	}
	return nil
}
