package twilio

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Navneet1206/appoint-healers/config"
)

func testConfig() config.TwilioConfig {
	return config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		FromNumber: "+15550001111",
	}
}

func TestSendSMS(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "token" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig())
	client.baseURL = server.URL

	if err := client.SendSMS("+15559998888", "Your code is 123456"); err != nil {
		t.Fatalf("SendSMS failed: %v", err)
	}
	if gotPath != "/Accounts/AC123/Messages.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotTo != "+15559998888" || gotFrom != "+15550001111" {
		t.Errorf("to/from = %q/%q", gotTo, gotFrom)
	}
	if gotBody != "Your code is 123456" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestSendSMSAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"The 'To' number is not a valid phone number."}`))
	}))
	defer server.Close()

	client := NewClient(testConfig())
	client.baseURL = server.URL

	err := client.SendSMS("bogus", "hi")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "not a valid phone number") {
		t.Errorf("error does not surface the API message: %v", err)
	}
}

func TestSendSMSUnconfigured(t *testing.T) {
	client := NewClient(config.TwilioConfig{})
	err := client.SendSMS("+15559998888", "hi")
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	if !strings.Contains(err.Error(), "Twilio is not configured") {
		t.Errorf("unexpected error: %v", err)
	}
}
