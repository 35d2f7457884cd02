// Package api is the read-only client for the oilscope backend. The backend
// owns scraping, persistence and the statistical analytics; this client just
// fetches already-validated JSON and maps it onto core types.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oilscope/oilscope/internal/core"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	token      string
	locationID int
	http       *http.Client
}

func NewClient(baseURL, token string, locationID int) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		locationID: locationID,
		http:       &http.Client{Timeout: defaultTimeout},
	}
}

// SetHTTPClient overrides the underlying client (tests).
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.http = hc
	}
}

type pricePayload struct {
	Vendor string  `json:"vendor"`
	Date   string  `json:"date"`
	Price  float64 `json:"price_per_gallon"`
}

type orderPayload struct {
	Date           string  `json:"date"`
	Gallons        float64 `json:"gallons"`
	PricePerGallon float64 `json:"price_per_gallon"`
	TotalCost      float64 `json:"total_cost"`
	Vendor         string  `json:"vendor"`
}

type readingPayload struct {
	Timestamp          string  `json:"timestamp"`
	Gallons            float64 `json:"gallons"`
	IsFillEvent        bool    `json:"is_fill_event"`
	IsAnomaly          bool    `json:"is_anomaly"`
	IsPostFillUnstable bool    `json:"is_post_fill_unstable"`
}

type temperaturePayload struct {
	Date string   `json:"date"`
	High *float64 `json:"high_temp"`
	Low  *float64 `json:"low_temp"`
}

// Prices returns per-vendor price history for the window.
func (c *Client) Prices(ctx context.Context, window core.TimeWindow) ([]core.VendorSeries, error) {
	var payload []pricePayload
	if err := c.get(ctx, "/api/oil-prices", query(window, c.locationID), &payload); err != nil {
		return nil, err
	}

	byVendor := make(map[string][]core.TimePoint)
	var vendors []string
	for _, p := range payload {
		d, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			continue // tolerate malformed rows, the backend validates
		}
		if _, seen := byVendor[p.Vendor]; !seen {
			vendors = append(vendors, p.Vendor)
		}
		byVendor[p.Vendor] = append(byVendor[p.Vendor], core.TimePoint{
			Date:  d,
			Value: core.Float(p.Price),
		})
	}

	out := make([]core.VendorSeries, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, core.VendorSeries{Vendor: v, Points: byVendor[v]})
	}
	return out, nil
}

func (c *Client) Orders(ctx context.Context, window core.TimeWindow) ([]core.OilOrder, error) {
	var payload []orderPayload
	if err := c.get(ctx, "/api/oil-orders", query(window, c.locationID), &payload); err != nil {
		return nil, err
	}

	out := make([]core.OilOrder, 0, len(payload))
	for _, o := range payload {
		d, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			continue
		}
		out = append(out, core.OilOrder{
			Date:           d,
			Gallons:        o.Gallons,
			PricePerGallon: o.PricePerGallon,
			TotalCost:      o.TotalCost,
			Vendor:         o.Vendor,
		})
	}
	return out, nil
}

func (c *Client) TankReadings(ctx context.Context, window core.TimeWindow) ([]core.TankReading, error) {
	var payload []readingPayload
	if err := c.get(ctx, "/api/tank/readings", query(window, c.locationID), &payload); err != nil {
		return nil, err
	}

	out := make([]core.TankReading, 0, len(payload))
	for _, r := range payload {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			continue
		}
		out = append(out, core.TankReading{
			Timestamp:          ts,
			Gallons:            r.Gallons,
			IsFillEvent:        r.IsFillEvent,
			IsAnomaly:          r.IsAnomaly,
			IsPostFillUnstable: r.IsPostFillUnstable,
		})
	}
	return out, nil
}

func (c *Client) Temperatures(ctx context.Context, window core.TimeWindow) ([]core.TemperatureDay, error) {
	var payload []temperaturePayload
	if err := c.get(ctx, "/api/temperatures", query(window, c.locationID), &payload); err != nil {
		return nil, err
	}

	out := make([]core.TemperatureDay, 0, len(payload))
	for _, t := range payload {
		d, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			continue
		}
		out = append(out, core.TemperatureDay{Date: d, High: t.High, Low: t.Low})
	}
	return out, nil
}

// Summary fetches the server-computed dashboard analytics. The values are
// opaque: trends, correlation and predictions are rendered as received.
func (c *Client) Summary(ctx context.Context) (core.DashboardSummary, error) {
	var out core.DashboardSummary
	if err := c.get(ctx, "/api/dashboard/summary", query("", c.locationID), &out); err != nil {
		return core.DashboardSummary{}, err
	}
	return out, nil
}

func query(window core.TimeWindow, locationID int) url.Values {
	q := url.Values{}
	if window != "" {
		q.Set("days", fmt.Sprintf("%d", window.Days()))
	}
	if locationID > 0 {
		q.Set("location_id", fmt.Sprintf("%d", locationID))
	}
	return q
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("api: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("api: %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("api: %s: decoding response: %w", path, err)
	}
	return nil
}
