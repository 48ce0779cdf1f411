package zoom

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Navneet1206/appoint-healers/config"
)

const (
	oauthURL = "https://zoom.us/oauth/token"
	apiURL   = "https://api.zoom.us/v2"
)

// Client creates Zoom meetings using server-to-server OAuth
// (account_credentials grant). The access token is cached until shortly
// before expiry.
type Client struct {
	httpClient *http.Client
	cfg        config.ZoomConfig
	oauthURL   string
	apiURL     string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Meeting is the subset of Zoom's meeting response the booking flow needs.
type Meeting struct {
	ID       int64  `json:"id"`
	JoinURL  string `json:"join_url"`
	StartURL string `json:"start_url"`
	Topic    string `json:"topic"`
}

func NewClient(cfg config.ZoomConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cfg:      cfg,
		oauthURL: oauthURL,
		apiURL:   apiURL,
	}
}

// CreateMeeting schedules a meeting for the given topic and start time and
// returns the join URL details.
func (c *Client) CreateMeeting(topic string, startTime time.Time, durationMin int) (*Meeting, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	accessToken, err := c.token()
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"topic":      topic,
		"type":       2, // scheduled meeting
		"start_time": startTime.UTC().Format("2006-01-02T15:04:05Z"),
		"duration":   durationMin,
		"settings": map[string]interface{}{
			"join_before_host": false,
			"waiting_room":     true,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.apiURL+"/users/me/meetings", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, errors.New("Zoom meeting API returned non-OK status: " + resp.Status)
	}

	var meeting Meeting
	if err := json.NewDecoder(resp.Body).Decode(&meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (c *Client) token() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "account_credentials")
	form.Set("account_id", c.cfg.AccountID)

	req, err := http.NewRequest("POST", c.oauthURL+"?"+form.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("Zoom OAuth returned non-OK status: " + resp.Status)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}

	c.accessToken = tokenResp.AccessToken
	// Refresh one minute early
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}
