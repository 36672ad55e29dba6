package data_adaptor

import (
	"net"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 15 * time.Second

// summaryTransport 给每个请求加上固定的请求头
type summaryTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *summaryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if t.apiKey != "" {
		req.Header.Set("x-api-key", t.apiKey)
	}
	return t.base.RoundTrip(req)
}

// newHTTPClient 上游只有一个 host，分页请求复用同一组连接
func newHTTPClient(timeout time.Duration, apiKey string) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	dialer := &net.Dialer{
		Timeout:   min(timeout, 10*time.Second),
		KeepAlive: 30 * time.Second,
	}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   min(timeout, 10*time.Second),
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &summaryTransport{base: base, apiKey: apiKey},
	}
}
