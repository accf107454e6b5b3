//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
}

func doJSON(t *testing.T, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, baseURL()+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, out
}

// createQuestion inserts a uniquely worded question and returns its id.
func createQuestion(t *testing.T, category int, prefix string) int {
	t.Helper()

	text := fmt.Sprintf("%s %d?", prefix, time.Now().UnixNano())
	status, out := doJSON(t, http.MethodPost, "/questions", map[string]interface{}{
		"question":   text,
		"answer":     "integration",
		"category":   category,
		"difficulty": 1,
	})
	if status != http.StatusOK {
		t.Fatalf("create question: expected 200, got %d: %v", status, out)
	}
	id, ok := out["created"].(float64)
	if !ok {
		t.Fatalf("create question: missing created id: %v", out)
	}
	return int(id)
}

func deleteQuestion(t *testing.T, id int) {
	t.Helper()
	doJSON(t, http.MethodDelete, fmt.Sprintf("/questions/%d", id), nil)
}

func expectEnvelope(t *testing.T, status int, out map[string]interface{}, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("expected %d, got %d: %v", want, status, out)
	}
	if out["success"] != false {
		t.Fatalf("success must be false: %v", out)
	}
	if out["error"] != float64(want) {
		t.Fatalf("error field = %v, want %d", out["error"], want)
	}
	if msg, _ := out["message"].(string); msg == "" {
		t.Fatalf("message is empty: %v", out)
	}
}
