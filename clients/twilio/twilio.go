package twilio

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Navneet1206/appoint-healers/config"
)

const baseURL = "https://api.twilio.com/2010-04-01"

// Client sends SMS through the Twilio Messages REST API.
type Client struct {
	httpClient *http.Client
	cfg        config.TwilioConfig
	baseURL    string
}

func NewClient(cfg config.TwilioConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cfg:     cfg,
		baseURL: baseURL,
	}
}

// SendSMS posts a message from the configured number to the recipient.
func (c *Client) SendSMS(to, body string) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.cfg.FromNumber)
	form.Set("Body", body)

	endpoint := c.baseURL + "/Accounts/" + c.cfg.AccountSID + "/Messages.json"
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return errors.New("Twilio API error: " + apiErr.Message)
		}
		return errors.New("Twilio API returned non-OK status: " + resp.Status)
	}
	return nil
}
