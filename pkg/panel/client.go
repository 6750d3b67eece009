package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second
	// 只读的库存查询允许少量重试，变更类调用绝不自动重试
	maxListRetries = 3
)

// HTTPClient 基于 HTTP 的面板客户端实现
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// Option 配置 HTTPClient
type Option func(*HTTPClient)

// WithTimeout 设置单次请求超时
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// New 创建面板客户端
func New(baseURL, apiKey string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListNodes 列举全部节点，翻页取完为止
func (c *HTTPClient) ListNodes(ctx context.Context) ([]Node, error) {
	var nodes []Node

	page := 1
	for {
		var resp listResponse[nodeAttributes]
		path := fmt.Sprintf("/api/application/nodes?page=%d", page)
		if err := c.getWithRetry(ctx, path, &resp); err != nil {
			return nil, fmt.Errorf("list nodes page %d: %w", page, err)
		}

		for _, item := range resp.Data {
			attr := item.Attributes
			nodes = append(nodes, Node{
				ID:                 attr.ID,
				Name:               attr.Name,
				MemoryMB:           attr.Memory,
				DiskMB:             attr.Disk,
				MemoryOverallocate: attr.MemoryOverallocate,
				DiskOverallocate:   attr.DiskOverallocate,
				AllocatedMemoryMB:  attr.AllocatedResources.Memory,
				AllocatedDiskMB:    attr.AllocatedResources.Disk,
			})
		}

		if page >= resp.Meta.Pagination.TotalPages {
			break
		}
		page++
	}

	return nodes, nil
}

// ListFreeAllocations 列举节点上未被占用的网络分配，按端口升序返回
func (c *HTTPClient) ListFreeAllocations(ctx context.Context, nodeID int64) ([]Allocation, error) {
	var free []Allocation

	page := 1
	for {
		var resp listResponse[allocationAttributes]
		path := fmt.Sprintf("/api/application/nodes/%d/allocations?page=%d", nodeID, page)
		if err := c.getWithRetry(ctx, path, &resp); err != nil {
			return nil, fmt.Errorf("list allocations for node %d page %d: %w", nodeID, page, err)
		}

		for _, item := range resp.Data {
			attr := item.Attributes
			if attr.Assigned {
				continue
			}
			free = append(free, Allocation{
				ID:       attr.ID,
				IP:       attr.IP,
				Port:     attr.Port,
				Assigned: false,
			})
		}

		if page >= resp.Meta.Pagination.TotalPages {
			break
		}
		page++
	}

	sort.Slice(free, func(i, j int) bool { return free[i].Port < free[j].Port })
	return free, nil
}

// CreateServer 在面板上创建实例
func (c *HTTPClient) CreateServer(ctx context.Context, req *CreateServerRequest) (int64, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("name", req.Name).
		Int64("node_id", req.NodeID).
		Int64("allocation_id", req.AllocationID).
		Msg("Creating server on panel")

	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("marshal create server request: %w", err)
	}

	var resp createServerResponse
	if err := c.do(ctx, http.MethodPost, "/api/application/servers", bytes.NewReader(body), &resp); err != nil {
		return 0, fmt.Errorf("create server: %w", err)
	}

	logger.Info().
		Int64("external_id", resp.Attributes.ID).
		Str("identifier", resp.Attributes.Identifier).
		Msg("Server created on panel")

	return resp.Attributes.ID, nil
}

// SuspendServer 暂停实例，404 视为成功
func (c *HTTPClient) SuspendServer(ctx context.Context, externalID int64) error {
	path := fmt.Sprintf("/api/application/servers/%d/suspend", externalID)
	return c.mutateTolerateGone(ctx, http.MethodPost, path, "suspend server")
}

// UnsuspendServer 恢复实例，404 视为成功
func (c *HTTPClient) UnsuspendServer(ctx context.Context, externalID int64) error {
	path := fmt.Sprintf("/api/application/servers/%d/unsuspend", externalID)
	return c.mutateTolerateGone(ctx, http.MethodPost, path, "unsuspend server")
}

// DeleteServer 删除实例，404 视为成功
func (c *HTTPClient) DeleteServer(ctx context.Context, externalID int64) error {
	path := fmt.Sprintf("/api/application/servers/%d", externalID)
	return c.mutateTolerateGone(ctx, http.MethodDelete, path, "delete server")
}

// mutateTolerateGone 执行变更类请求，目标已不存在（404）时视为成功
// 保证 Suspend/Delete 可以被 sweeper 安全地重复调用
func (c *HTTPClient) mutateTolerateGone(ctx context.Context, method, path, action string) error {
	err := c.do(ctx, method, path, nil, nil)
	if err == nil {
		return nil
	}

	var statusErr *statusError
	if asStatusError(err, &statusErr) && statusErr.status == http.StatusNotFound {
		zerolog.Ctx(ctx).Debug().
			Str("path", path).
			Msg("Target already gone, treating as success")
		return nil
	}

	return fmt.Errorf("%s: %w", action, err)
}

// getWithRetry 带指数退避重试的 GET 请求
// 只用于只读的库存查询，重试不会产生副作用
func (c *HTTPClient) getWithRetry(ctx context.Context, path string, out any) error {
	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.InitialInterval = 200 * time.Millisecond
	backoffCfg.MaxInterval = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxListRetries; attempt++ {
		if attempt > 0 {
			sleep := backoffCfg.NextBackOff()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sleep):
			}
		}

		lastErr = c.do(ctx, http.MethodGet, path, nil, out)
		if lastErr == nil {
			return nil
		}

		// 4xx 错误重试也不会恢复，直接返回
		var statusErr *statusError
		if asStatusError(lastErr, &statusErr) && statusErr.status >= 400 && statusErr.status < 500 {
			return lastErr
		}
	}

	return lastErr
}

// do 执行一次 HTTP 请求并解析 JSON 响应
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{
			status: resp.StatusCode,
			body:   string(respBody),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w (body: %s)", err, string(respBody))
	}

	return nil
}
