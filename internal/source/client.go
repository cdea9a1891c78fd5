package source

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	userAgent       = "spigell/jobmate (spigelly@gmail.com)"
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

// client is the HTTP plumbing shared by all adapters.
type client struct {
	http    *http.Client
	logger  *zap.Logger
	headers map[string]string
}

func newClient(logger *zap.Logger, headers map[string]string) client {
	return client{
		http:    &http.Client{},
		logger:  logger,
		headers: headers,
	}
}

// getJSON makes a GET request and decodes the JSON body into target.
// Non-200 statuses are errors; gzip bodies are handled transparently.
func (c *client) getJSON(req *http.Request, q url.Values, target any) error {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("url", req.URL.Redacted()))

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if err := json.NewDecoder(reader).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
