// Package ctrac talks to the C-Trac asset API, the other way customer
// and wrench information reaches the entry form besides label scanning.
package ctrac

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c-trac/torquebench/internal/common"
	"github.com/c-trac/torquebench/internal/llm"
)

type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// CompanyAsset is the wrench record attached to a line item.
type CompanyAsset struct {
	UnitNumber   string         `json:"unit_number"`
	Make         string         `json:"make"`
	Model        string         `json:"model"`
	SerialNumber string         `json:"serial_number"`
	CompanyID    json.Number    `json:"company_id"`
	Extra        map[string]any `json:"additional_info_fields"`
}

// LineItem is the payload behind /api/line-items/{id}.
type LineItem struct {
	CompanyAsset CompanyAsset `json:"company_asset"`
}

// Company is the payload behind /api/companies/{id}.
type Company struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// GetLineItem fetches one line item by id.
func (c *Client) GetLineItem(ctx context.Context, id string) (*LineItem, error) {
	var envelope struct {
		Data *LineItem `json:"data"`
	}
	if err := c.getJSON(ctx, "/api/line-items/"+id, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("line item %s: empty data", id)
	}
	return envelope.Data, nil
}

// GetCompany fetches a company record by id.
func (c *Client) GetCompany(ctx context.Context, id string) (*Company, error) {
	// some deployments wrap the payload in "data", some don't
	var raw map[string]json.RawMessage
	if err := c.getJSON(ctx, "/api/companies/"+id, &raw); err != nil {
		return nil, err
	}
	var company Company
	if inner, ok := raw["data"]; ok {
		if err := json.Unmarshal(inner, &company); err != nil {
			return nil, fmt.Errorf("decode company: %w", err)
		}
		return &company, nil
	}
	b, _ := json.Marshal(raw)
	if err := json.Unmarshal(b, &company); err != nil {
		return nil, fmt.Errorf("decode company: %w", err)
	}
	return &company, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	reqID := uuid.New().String()
	start := time.Now()

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")

	c.log.Info("ctrac.http.request", "req_id", reqID, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("ctrac.http.send_error", "req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.Warn("ctrac.http.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.log.Info("ctrac.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("ctrac status 404: %w", common.ErrNotFound)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("ctrac status %d: %s: %w", resp.StatusCode, string(raw), common.ErrTransport)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ApplyLineItem maps a line item (and optionally its company) onto label
// fields, the same projection the entry form uses for a scanned label.
func ApplyLineItem(item *LineItem, company *Company) llm.LabelFields {
	fields := llm.LabelFields{
		Manufacturer: item.CompanyAsset.Make,
		Model:        item.CompanyAsset.Model,
		Unit:         item.CompanyAsset.UnitNumber,
		Serial:       item.CompanyAsset.SerialNumber,
		MaxTorque:    extraString(item.CompanyAsset.Extra, "max_torque"),
		TorqueUnit:   extraString(item.CompanyAsset.Extra, "torque_unit"),
	}
	if company != nil {
		fields.Customer = company.Name
		fields.Phone = company.Phone
	}
	return fields
}

// additional_info_fields values arrive as strings or numbers depending on
// how the asset was entered; render either as the printed form.
func extraString(extra map[string]any, key string) string {
	switch v := extra[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}
