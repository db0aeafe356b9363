package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/agenthands/regcompare/internal/core/compare"
	"github.com/agenthands/regcompare/internal/document"
)

func main() {
	baseURL := os.Getenv("REGCOMPARE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	dir := "testdata"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Health...")
	if _, ok := sendRequest(baseURL, "GET", "/health", nil); !ok {
		fail("Health")
	}
	fmt.Println("PASSED: Health")

	fmt.Println("2. Comparing sample pages...")
	first, err := load(dir + "/reference.yaml")
	if err != nil {
		fail(err.Error())
	}
	second, err := load(dir + "/extracted.json")
	if err != nil {
		fail(err.Error())
	}
	body, ok := sendRequest(baseURL, "POST", "/compare?view=summary", map[string]any{"first": first, "second": second})
	if !ok {
		fail("Compare")
	}
	var resp struct {
		ID      string          `json:"id"`
		Summary compare.Summary `json:"summary"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fail("Compare: " + err.Error())
	}
	if resp.Summary.People.TotalMatches == 0 {
		fail("Compare: no matches")
	}
	fmt.Printf("PASSED: Compare (run %s, %d matches, %d errors)\n",
		resp.ID, resp.Summary.People.TotalMatches, resp.Summary.TotalErrors())

	fmt.Println("3. Metrics...")
	if _, ok := sendRequest(baseURL, "GET", "/metrics", nil); !ok {
		fail("Metrics")
	}
	fmt.Println("PASSED: Metrics")
}

func load(path string) (*document.Page, error) {
	format, err := document.FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return document.Decode(f, format)
}

func fail(what string) {
	fmt.Printf("FAILED: %s\n", what)
	os.Exit(1)
}

func sendRequest(baseURL, method, endpoint string, payload any) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}
	return respBody, true
}
