package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("=== Lab Assistant API Smoke Test ===")

	// 1. Submit a request
	color.Yellow("\n[1] POST /request/v1")
	resp, body, err := sendRequest("POST", "/request/v1", map[string]string{
		"text":     "The database keeps timing out when we upload sample results",
		"priority": "high",
	})
	if err != nil {
		color.Red("Submit failed: %v", err)
		os.Exit(1)
	}
	prettyPrint(body)
	if resp.StatusCode != http.StatusCreated {
		color.Red("Expected 201, got %d", resp.StatusCode)
		os.Exit(1)
	}

	var created struct {
		Data struct {
			RequestId string `json:"request_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.Data.RequestId == "" {
		color.Red("No request_id in response")
		os.Exit(1)
	}
	id := created.Data.RequestId

	// 2. Poll status until terminal
	color.Yellow("\n[2] GET /request/v1/%s", id)
	var status string
	for i := 0; i < 20; i++ {
		_, body, err = sendRequest("GET", "/request/v1/"+id, nil)
		if err != nil {
			color.Red("Status failed: %v", err)
			os.Exit(1)
		}
		var st struct {
			Data struct {
				Status string `json:"status"`
			} `json:"data"`
		}
		json.Unmarshal(body, &st)
		status = st.Data.Status
		if status == "done" || status == "failed" {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	prettyPrint(body)
	if status != "done" {
		color.Red("Request did not finish (status=%q)", status)
		os.Exit(1)
	}

	// 3. Audit trail
	color.Yellow("\n[3] GET /request/v1/%s/tool-calls", id)
	_, body, err = sendRequest("GET", "/request/v1/"+id+"/tool-calls", nil)
	if err != nil {
		color.Red("Tool calls failed: %v", err)
		os.Exit(1)
	}
	prettyPrint(body)

	color.Green("\nAll checks passed.")
}
