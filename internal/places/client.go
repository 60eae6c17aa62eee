// Package places registers user-suggested places with the Google Places
// add-place endpoint.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/HebleV/putmeonmap/internal/models"
)

// accuracy of the submitted location in meters
const accuracy = 50

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: httpClient}
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type addPlaceRequest struct {
	Location location `json:"location"`
	Accuracy int      `json:"accuracy"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Types    []string `json:"types"`
	Language string   `json:"language"`
}

// Result is what a successful registration reports back to the form.
type Result struct {
	Status      string         `json:"status"`
	PlaceID     string         `json:"placeId"`
	APIResponse map[string]any `json:"apiResponse"`
}

// APIError carries the upstream response body of a failed call, when there
// was one.
type APIError struct {
	StatusCode int
	Message    string
	Response   map[string]any
}

func (e *APIError) Error() string {
	return "Google Maps API error: " + e.Message
}

// Register submits sub to the places API.
func (c *Client) Register(ctx context.Context, sub *models.Submission) (*Result, error) {
	body, err := json.Marshal(addPlaceRequest{
		Location: location{Lat: sub.Lat, Lng: sub.Lng},
		Accuracy: accuracy,
		Name:     sub.Name,
		Address:  sub.Address,
		Types:    []string{models.PlaceType(sub.Category)},
		Language: "en",
	})
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Message: transportMessage(err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	var data map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil && resp.StatusCode < 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: "invalid response: " + err.Error()}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    messageOr(data, fmt.Sprintf("Request failed with status code %d", resp.StatusCode)),
			Response:   data,
		}
	}

	// The API reports most failures with HTTP 200 and a non-OK status.
	if status, _ := data["status"].(string); status != "" && status != "OK" {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    messageOr(data, status),
			Response:   data,
		}
	}

	placeID, _ := data["place_id"].(string)
	return &Result{Status: "success", PlaceID: placeID, APIResponse: data}, nil
}

// transportMessage drops the request URL from err since it carries the key.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}

func messageOr(data map[string]any, fallback string) string {
	if msg, ok := data["error_message"].(string); ok && msg != "" {
		return msg
	}
	return fallback
}
