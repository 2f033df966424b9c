package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConsentSet(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"accepted", `{"choice":"accepted"}`, http.StatusOK},
		{"essential", `{"choice":"essential"}`, http.StatusOK},
		{"unknown choice", `{"choice":"all"}`, http.StatusBadRequest},
		{"malformed", `accepted`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewConsent(true).Set(rr, jsonRequest(http.MethodPost, "/api/consent", tt.body))

			if rr.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			var cookie *http.Cookie
			for _, c := range rr.Result().Cookies() {
				if c.Name == ConsentCookieName {
					cookie = c
				}
			}
			if tt.wantCode != http.StatusOK {
				if cookie != nil {
					t.Error("no cookie should be set on a rejected choice")
				}
				return
			}
			if cookie == nil {
				t.Fatal("consent cookie not set")
			}
			if !cookie.Secure {
				t.Error("cookie should be Secure")
			}
			if cookie.MaxAge <= 0 {
				t.Errorf("MaxAge: got %d", cookie.MaxAge)
			}
		})
	}
}

func TestConsentGet(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"no cookie", "", ""},
		{"accepted", ConsentAccepted, ConsentAccepted},
		{"essential", ConsentEssential, ConsentEssential},
		{"tampered value", "everything", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/consent", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: ConsentCookieName, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			NewConsent(false).Get(rr, req)

			var got consentBody
			decodeBody(t, rr, &got)
			if got.Choice != tt.want {
				t.Errorf("choice: got %q, want %q", got.Choice, tt.want)
			}
		})
	}
}
