package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusName(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{1, "ToBeReviewed"},
		{2, "NeedsRevision"},
		{3, "Approved"},
		{9, "9"},
	}
	for _, tt := range tests {
		if got := statusName(tt.status); got != tt.want {
			t.Errorf("statusName(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestClientSetsActorHeader(t *testing.T) {
	var gotActor string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor = r.Header.Get("X-Actor")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	oldServer, oldActor := serverURL, actor
	serverURL, actor = server.URL, "reviewer-1"
	defer func() { serverURL, actor = oldServer, oldActor }()

	var resp map[string]string
	if err := newClient().getJSON("/healthz", &resp); err != nil {
		t.Fatalf("getJSON: %v", err)
	}
	if gotActor != "reviewer-1" {
		t.Errorf("X-Actor = %q, want %q", gotActor, "reviewer-1")
	}
}

func TestClientSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"record not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	oldServer := serverURL
	serverURL = server.URL
	defer func() { serverURL = oldServer }()

	err := newClient().getJSON("/api/v1/records/REC0000000", nil)
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}
