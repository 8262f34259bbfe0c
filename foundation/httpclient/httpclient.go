// Package httpclient provides basic http functions
package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GetJSON retrieves url with a simple GET request and unmarshals the response
// body into target
func GetJSON(client *http.Client, url string, target interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	err = json.Unmarshal(body, target)
	if err != nil {
		return fmt.Errorf("unable to unmarshal response from %s: %w", url, err)
	}
	return nil
}

// GetJSONRetryOnce attempts GetJSON and, on failure, retries exactly once after
// retryDelay. A second failure propagates. Single retry tolerates network
// blips without masking a down feed.
func GetJSONRetryOnce(client *http.Client, url string, retryDelay time.Duration, target interface{}) error {
	err := GetJSON(client, url, target)
	if err == nil {
		return nil
	}
	time.Sleep(retryDelay)
	return GetJSON(client, url, target)
}
