package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodePage(page, totalPages int, nodes ...map[string]any) map[string]any {
	data := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		data = append(data, map[string]any{"attributes": n})
	}
	return map[string]any{
		"data": data,
		"meta": map[string]any{
			"pagination": map[string]any{
				"current_page": page,
				"total_pages":  totalPages,
			},
		},
	}
}

func TestListNodes_DrainsAllPages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		page := r.URL.Query().Get("page")
		var resp map[string]any
		switch page {
		case "1":
			resp = nodePage(1, 2, map[string]any{
				"id": 1, "name": "node-1", "memory": 32768, "disk": 500000,
				"memory_overallocate": 20, "disk_overallocate": 0,
				"allocated_resources": map[string]any{"memory": 10240, "disk": 100000},
			})
		case "2":
			resp = nodePage(2, 2, map[string]any{
				"id": 2, "name": "node-2", "memory": 65536, "disk": 1000000,
				"memory_overallocate": -1, "disk_overallocate": -1,
				"allocated_resources": map[string]any{"memory": 0, "disk": 0},
			})
		default:
			t.Fatalf("unexpected page: %s", page)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, "test-key")
	nodes, err := client.ListNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, int64(1), nodes[0].ID)
	assert.Equal(t, int64(32768), nodes[0].MemoryMB)
	assert.Equal(t, int64(20), nodes[0].MemoryOverallocate)
	assert.Equal(t, int64(10240), nodes[0].AllocatedMemoryMB)

	assert.Equal(t, int64(2), nodes[1].ID)
	assert.Equal(t, int64(-1), nodes[1].MemoryOverallocate)
}

func TestListFreeAllocations_FiltersAssignedAndSortsByPort(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/api/application/nodes/7/allocations")

		resp := map[string]any{
			"data": []map[string]any{
				{"attributes": map[string]any{"id": 11, "ip": "10.0.0.1", "port": 25567, "assigned": false}},
				{"attributes": map[string]any{"id": 12, "ip": "10.0.0.1", "port": 25565, "assigned": true}},
				{"attributes": map[string]any{"id": 13, "ip": "10.0.0.1", "port": 25566, "assigned": false}},
			},
			"meta": map[string]any{
				"pagination": map[string]any{"current_page": 1, "total_pages": 1},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, "test-key")
	allocations, err := client.ListFreeAllocations(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, allocations, 2)

	// 已占用的分配被过滤，剩余按端口升序
	assert.Equal(t, int64(13), allocations[0].ID)
	assert.Equal(t, 25566, allocations[0].Port)
	assert.Equal(t, int64(11), allocations[1].ID)
	assert.Equal(t, 25567, allocations[1].Port)
}

func TestListNodes_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(nodePage(1, 1))
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, "test-key")
	_, err := client.ListNodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCreateServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/application/servers", r.URL.Path)

		var req CreateServerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "srv-test", req.Name)
		assert.Equal(t, int64(1), req.NodeID)
		assert.Equal(t, int64(1024), req.Limits.MemoryMB)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"attributes":{"id":42,"identifier":"abc123ef"}}`)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, "test-key")
	externalID, err := client.CreateServer(context.Background(), &CreateServerRequest{
		Name:         "srv-test",
		NodeID:       1,
		AllocationID: 11,
		Limits:       ServerLimits{MemoryMB: 1024, DiskMB: 10240, CPUPercent: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), externalID)
}

func TestCreateServer_NotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, "test-key")
	_, err := client.CreateServer(context.Background(), &CreateServerRequest{Name: "srv-test"})
	require.Error(t, err)
	// 变更类调用失败后绝不自动重试
	assert.Equal(t, int32(1), calls.Load())
}

func TestMutations_TolerateGone(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, "test-key")
	ctx := context.Background()

	testcases := []struct {
		name string
		call func() error
	}{
		{"SuspendServer", func() error { return client.SuspendServer(ctx, 42) }},
		{"UnsuspendServer", func() error { return client.UnsuspendServer(ctx, 42) }},
		{"DeleteServer", func() error { return client.DeleteServer(ctx, 42) }},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// 目标已不存在时视为成功
			assert.NoError(t, tc.call())
		})
	}
}

func TestDeleteServer_ServerErrorPropagates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, "test-key")
	err := client.DeleteServer(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}
