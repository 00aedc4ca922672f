package misc

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/chzyer/logex"
)

// MaxDownloadSize bounds every body read by Download.
const MaxDownloadSize = 16 << 20

// NewHTTPClient returns a client honouring proxy settings from the
// environment. A zero timeout disables the overall request deadline.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: NewTransport(http.ProxyFromEnvironment),
		Timeout:   timeout,
	}
}

func NewTransport(proxy func(*http.Request) (*url.URL, error)) *http.Transport {
	return &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// Download performs a GET and returns the body of a 200 response.
func Download(ctx context.Context, client *http.Client, uri string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, logex.Trace(err, uri)
	}
	response, err := client.Do(req)
	if err != nil {
		return nil, logex.Trace(err, uri)
	}
	defer response.Body.Close()
	if err := checkResponseError(response); err != nil {
		return nil, logex.Trace(err, uri)
	}
	data, err := io.ReadAll(io.LimitReader(response.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, logex.Trace(err, uri)
	}
	if len(data) > MaxDownloadSize {
		return nil, logex.NewErrorf("response from %v exceeds %v bytes", uri, MaxDownloadSize)
	}
	return data, nil
}

func checkResponseError(response *http.Response) error {
	if response.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(response.Body, 512))
		if err != nil {
			return logex.Trace(err)
		}
		return logex.NewErrorf("unexpected status %v: %s", response.Status, body)
	}
	return nil
}
