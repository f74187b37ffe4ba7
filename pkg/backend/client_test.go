package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStringIDDecoding(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want StringID
	}{
		{"string", `"77"`, "77"},
		{"number", `77`, "77"},
		{"float", `77.0`, "77.0"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id StringID
			if err := json.Unmarshal([]byte(tt.raw), &id); err != nil {
				t.Fatalf("unmarshal %s failed: %v", tt.raw, err)
			}
			if id != tt.want {
				t.Fatalf("decoded %q, want %q", id, tt.want)
			}
		})
	}
}

func TestMenuEnvelopeShapes(t *testing.T) {
	bodies := map[string]string{
		"wrapped": `{"success":true,"data":[{"category":"Tea","items":[{"id":3,"name":"Matcha Latte"}]}]}`,
		"bare":    `[{"category":"Tea","items":[{"id":"3","name":"Matcha Latte"}]}]`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			client := NewClient(server.URL, nil)
			categories, err := client.Menu(context.Background())
			if err != nil {
				t.Fatalf("Menu failed: %v", err)
			}
			if len(categories) != 1 || categories[0].Category != "Tea" {
				t.Fatalf("unexpected categories %+v", categories)
			}
			if len(categories[0].Items) != 1 || categories[0].Items[0].ID != "3" {
				t.Fatalf("unexpected items %+v", categories[0].Items)
			}
		})
	}
}

func TestCreateOrderEnvelopeShapes(t *testing.T) {
	bodies := map[string]string{
		"wrapped": `{"success":true,"data":{"id":"77","status":"pending"}}`,
		"bare":    `{"id":77,"status":"pending"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			client := NewClient(server.URL, nil)
			payload, err := client.CreateOrder(context.Background(), OrderRequest{})
			if err != nil {
				t.Fatalf("CreateOrder failed: %v", err)
			}
			if payload.ID != "77" || payload.Status != "pending" {
				t.Fatalf("unexpected payload %+v", payload)
			}
		})
	}
}

func TestLocaleParamOnEveryRequest(t *testing.T) {
	var gotLocale string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocale = r.URL.Query().Get("locale")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, func() string { return "th" })
	if _, err := client.Menu(context.Background()); err != nil {
		t.Fatalf("Menu failed: %v", err)
	}
	if gotLocale != "th" {
		t.Fatalf("expected locale=th, got %q", gotLocale)
	}
}

func TestMenuItemUnknownID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	item, err := client.MenuItem(context.Background(), "999")
	if err != nil {
		t.Fatalf("MenuItem failed: %v", err)
	}
	if item != nil {
		t.Fatalf("expected nil item for id-less payload, got %+v", item)
	}
}

func TestNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	if _, err := client.Menu(context.Background()); err == nil {
		t.Fatalf("expected error for 502 response")
	}
}
