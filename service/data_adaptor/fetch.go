package data_adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jpillora/backoff"
)

const userAgent = "stolen-report/1.0"

// ErrNoMorePages 分页结束（404 或空页）
var ErrNoMorePages = errors.New("no more pages")

// PageCache 原始页面缓存，nil 表示不缓存
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Options struct {
	SummaryURL string
	APIKey     string
	// 上游筛选条件，为空不传
	Community       string
	CollectionSetID string
	Timeout         time.Duration
	MaxRetries      int
	// 重试间隔，测试里可以调小
	RetryMin time.Duration
	RetryMax time.Duration
	Cache    PageCache
	Logger   *slog.Logger
}

// Client 拉取上游 collections summary 数据
type Client struct {
	httpClient *http.Client
	opts       Options
	// 缓存 key 前缀，按上游地址和筛选条件区分，多个部署共用一个 Redis 时互不影响
	keyPrefix string
	log       *slog.Logger
}

func NewClient(opts Options) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryMin <= 0 {
		opts.RetryMin = 500 * time.Millisecond
	}
	if opts.RetryMax <= 0 {
		opts.RetryMax = 5 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		httpClient: newHTTPClient(opts.Timeout, opts.APIKey),
		opts:       opts,
		log:        log.With("component", "data_adaptor"),
	}
	scope := opts.SummaryURL
	if u, err := c.pageURL(0); err == nil {
		scope = u
	}
	c.keyPrefix = "report:summary:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(scope)).String() + ":page:"
	return c
}

// CacheKey 第 page 页在缓存中的 key
func (c *Client) CacheKey(page int) string {
	return c.keyPrefix + strconv.Itoa(page)
}

// FetchPage 第 page 页；0 为首屏，之后的页面在 URL 上加 ?page=N
func (c *Client) FetchPage(ctx context.Context, page int) ([]RawCollection, error) {
	pageURL, err := c.pageURL(page)
	if err != nil {
		return nil, err
	}
	key := c.CacheKey(page)

	if c.opts.Cache != nil {
		if body, ok, err := c.opts.Cache.Get(ctx, key); err != nil {
			c.log.Warn("读取缓存失败", "key", key, "err", err)
		} else if ok {
			return decodePage(body, page)
		}
	}

	body, err := c.getWithRetry(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	records, err := decodePage(body, page)
	if err != nil {
		return nil, err
	}

	if c.opts.Cache != nil {
		if err := c.opts.Cache.Set(ctx, key, body); err != nil {
			c.log.Warn("写入缓存失败", "key", key, "err", err)
		}
	}
	c.log.Debug("分页数据已获取", "page", page, "records", len(records))
	return records, nil
}

func (c *Client) pageURL(page int) (string, error) {
	u, err := url.Parse(c.opts.SummaryURL)
	if err != nil || u.Scheme == "" {
		return "", fmt.Errorf("无效的 summary 地址 %q", c.opts.SummaryURL)
	}
	q := u.Query()
	if c.opts.Community != "" {
		q.Set("community", c.opts.Community)
	}
	if c.opts.CollectionSetID != "" {
		q.Set("collectionsSetId", c.opts.CollectionSetID)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// statusError 非 200 响应
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("summary 响应码 %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

func (c *Client) getWithRetry(ctx context.Context, pageURL string) ([]byte, error) {
	b := &backoff.Backoff{
		Min:    c.opts.RetryMin,
		Max:    c.opts.RetryMax,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		body, err := c.get(ctx, pageURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) {
			if se.code == http.StatusNotFound {
				return nil, ErrNoMorePages
			}
			if !se.retryable() {
				return nil, err
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.opts.MaxRetries {
			break
		}

		wait := b.Duration()
		c.log.Warn("请求 summary 失败，稍后重试", "attempt", attempt, "wait", wait, "err", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("多次尝试后仍获取失败: %w", lastErr)
}

func (c *Client) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 summary 失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取 summary 响应失败: %w", err)
	}
	return body, nil
}

// decodePage 接受数组或 {"collections": [...]}；后续页为空表示分页结束
func decodePage(body []byte, page int) ([]RawCollection, error) {
	trimmed := bytes.TrimSpace(body)

	var records []RawCollection
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("解析 summary 响应失败: %w", err)
		}
	default:
		var env summaryEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("解析 summary 响应失败: %w", err)
		}
		records = env.Collections
	}

	if page > 0 && len(records) == 0 {
		return nil, ErrNoMorePages
	}
	if records == nil {
		records = []RawCollection{}
	}
	return records, nil
}
