// Package entropy supplies seeds for the stochastic parts of the engine.
// Instantiation is deterministic given a seed; where the seed itself
// should be unpredictable (player-driven zoom-ins), it comes from
// crypto/rand, optionally topped up from random.org.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Client provides unpredictable seeds, pooling values fetched from
// random.org when an API key is configured and falling back to
// crypto/rand otherwise.
type Client struct {
	apiKey string
	client *http.Client

	mu   sync.Mutex
	pool []int64
}

// NewClient creates a random.org-backed client. Returns nil if apiKey is
// empty; a nil Client still hands out crypto/rand seeds.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Seed returns an unpredictable int64 seed.
func (c *Client) Seed() int64 {
	if c == nil {
		return cryptoSeed()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pool) < 5 {
		c.refill()
	}
	if len(c.pool) == 0 {
		return cryptoSeed()
	}
	v := c.pool[0]
	c.pool = c.pool[1:]
	return v
}

func (c *Client) refill() {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateIntegers",
		"params": map[string]any{
			"apiKey": c.apiKey,
			"n":      50,
			"min":    0,
			"max":    1000000000,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		slog.Debug("random.org marshal failed", "error", err)
		return
	}

	resp, err := c.client.Post("https://api.random.org/json-rpc/4/invoke", "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("random.org fetch failed", "error", err)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("random.org read failed", "error", err)
		return
	}

	var result struct {
		Result struct {
			Random struct {
				Data []int64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Debug("random.org parse failed", "error", err)
		return
	}
	if result.Error != nil {
		slog.Debug("random.org API error", "error", result.Error.Message)
		return
	}

	c.pool = append(c.pool, result.Result.Random.Data...)
	slog.Debug("random.org pool refilled", "count", len(result.Result.Random.Data))
}

// cryptoSeed draws a non-negative int64 from crypto/rand.
func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Should never happen; fall back to a fixed odd constant.
		return 0x5DEECE66D
	}
	n := binary.LittleEndian.Uint64(buf[:]) >> 1
	return int64(n)
}

// CryptoSeed draws a seed without any client.
func CryptoSeed() int64 {
	return cryptoSeed()
}
