package qrctl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
)

// apiClient wraps a retrying HTTP client bound to one server and one
// bearer token.
type apiClient struct {
	base  string
	auth  string
	inner *retryablehttp.Client
}

func newClient(cmd *cobra.Command) *apiClient {
	base, _ := cmd.Root().PersistentFlags().GetString("server")
	auth, _ := cmd.Root().PersistentFlags().GetString("auth")
	if auth == "" {
		auth = os.Getenv("QRCTL_AUTH")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil

	return &apiClient{
		base:  strings.TrimRight(base, "/"),
		auth:  auth,
		inner: retryClient,
	}
}

// do sends one request and decodes the JSON response into out (when out
// is non-nil). Non-2xx responses surface the server's error message.
func (c *apiClient) do(method, path string, body any, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}

	req, err := retryablehttp.NewRequest(method, c.base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.auth != "" {
		req.Header.Set("Authorization", "Bearer "+c.auth)
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// printJSON renders the server response for the terminal.
func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(b))
}
