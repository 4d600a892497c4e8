package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/valyala/fasthttp"
)

const (
	embedTitle  = "새로운 상담 문의가 접수되었습니다!"
	embedColor  = 0x2563eb
	embedFooter = "올인원설비"

	// discord rejects field values longer than this
	maxFieldValue = 1024
)

var (
	ErrNotConfigured = errors.New("webhook url is not configured")
	ErrCircuitOpen   = errors.New("webhook circuit is open")
)

// RateLimitedError is returned on HTTP 429.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("webhook rate limited, retry after %s", e.RetryAfter)
}

type Payload struct {
	Username string  `json:"username,omitempty"`
	Embeds   []Embed `json:"embeds"`
}

type Embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []EmbedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
	Footer    *EmbedFooter `json:"footer,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// NewPayload builds the embed announcing a new contact.
func NewPayload(n model.ContactNotification, username string) Payload {
	return Payload{
		Username: username,
		Embeds: []Embed{{
			Title: embedTitle,
			Color: embedColor,
			Fields: []EmbedField{
				{Name: "이름", Value: fieldValue(n.Name), Inline: true},
				{Name: "연락처", Value: fieldValue(n.Phone), Inline: true},
				{Name: "문의 내용", Value: fieldValue(n.Message), Inline: false},
			},
			Timestamp: n.SubmittedAt.UTC().Format(time.RFC3339),
			Footer:    &EmbedFooter{Text: embedFooter},
		}},
	}
}

func fieldValue(v string) string {
	r := []rune(v)
	if len(r) <= maxFieldValue {
		return v
	}
	return string(r[:maxFieldValue-1]) + "…"
}

type Config struct {
	URL      string
	Username string
	Timeout  time.Duration

	// FailureThreshold consecutive failures open the circuit for Cooldown.
	// Zero disables the circuit.
	FailureThreshold int32
	Cooldown         time.Duration

	// Dial overrides the network dialer; nil uses fasthttp's default.
	Dial func(addr string) (net.Conn, error)
}

type Client struct {
	config Config
	client *fasthttp.Client

	consecutiveFails atomic.Int32
	circuitOpenUntil atomic.Int64
}

func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &Client{
		config: config,
		client: &fasthttp.Client{
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
			MaxConnsPerHost:     16,
			Dial:                config.Dial,
		},
	}
}

func (c *Client) Configured() bool {
	return c.config.URL != ""
}

// Send posts one notification. It makes a single attempt; retrying is the
// caller's decision.
func (c *Client) Send(ctx context.Context, n model.ContactNotification) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if c.circuitOpen() {
		return ErrCircuitOpen
	}

	body, err := json.Marshal(NewPayload(n, c.config.Username))
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	start := time.Now()
	err = c.doRequest(ctx, body)
	if err != nil {
		c.recordFailure()
		logger.Warn("webhook delivery failed", "contact_id", n.ContactID, "error", err, "latency", time.Since(start).String())
		return err
	}
	c.consecutiveFails.Store(0)
	logger.Debug("webhook delivered", "contact_id", n.ContactID, "latency", time.Since(start).String())
	return nil
}

func (c *Client) doRequest(ctx context.Context, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.URL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > c.config.Timeout {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == fasthttp.StatusTooManyRequests:
		return &RateLimitedError{RetryAfter: retryAfter(resp)}
	default:
		return fmt.Errorf("unexpected status code: %d, body: %s", status, truncate(resp.Body(), 256))
	}
}

func (c *Client) circuitOpen() bool {
	if c.config.FailureThreshold <= 0 {
		return false
	}
	return time.Now().UnixNano() < c.circuitOpenUntil.Load()
}

func (c *Client) recordFailure() {
	fails := c.consecutiveFails.Add(1)
	if c.config.FailureThreshold > 0 && fails >= c.config.FailureThreshold {
		c.circuitOpenUntil.Store(time.Now().Add(c.config.Cooldown).UnixNano())
		c.consecutiveFails.Store(0)
		logger.Warn("webhook circuit opened", "cooldown", c.config.Cooldown.String())
	}
}

func retryAfter(resp *fasthttp.Response) time.Duration {
	if v := resp.Header.Peek(fasthttp.HeaderRetryAfter); len(v) > 0 {
		if secs, err := strconv.ParseFloat(string(v), 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}
	var body struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.RetryAfter > 0 {
		return time.Duration(body.RetryAfter * float64(time.Second))
	}
	return time.Second
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

func (c *Client) Close() {
	c.client.CloseIdleConnections()
}
