// Package contacts looks up known clients in the backend WhatsApp
// directory. The directory is an optional enrichment: every failure mode
// is treated as "unknown user" so a directory outage never blocks a
// conversation.
package contacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

// Client queries GET {baseURL}/api/v1/whatsapp/info/{user_id}.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg model.ContactsConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: cfg.BackendURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup fetches client details for a WhatsApp user id. It returns
// (nil, nil) when the user is unknown or the backend is unreachable.
func (c *Client) Lookup(ctx context.Context, userID string) (*model.ClientInfo, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/whatsapp/info/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logx.Warn().Err(err).Str("user_id", userID).Msg("Contact lookup request build failed")
		return nil, nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logx.Warn().Err(err).Str("user_id", userID).Msg("Contact lookup failed")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logx.Debug().Int("status", resp.StatusCode).Str("user_id", userID).Msg("Contact directory has no record")
		return nil, nil
	}

	var info model.ClientInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		logx.Warn().Err(err).Str("user_id", userID).Msg("Contact lookup decode failed")
		return nil, nil
	}
	if info.IsEmpty() {
		return nil, nil
	}
	return &info, nil
}
