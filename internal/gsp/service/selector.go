package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jimyag/gsp/pkg/apierror"
	"github.com/jimyag/gsp/pkg/panel"
)

// Capacity 节点某一维度的可用容量
// 用显式的 Unbounded 标记代替 -1 哨兵值参与比较，
// 避免超分配百分比为 -1 时的哨兵算术错误
type Capacity struct {
	unbounded bool
	value     int64
}

// Bounded 构造有限容量
func Bounded(v int64) Capacity {
	return Capacity{value: v}
}

// Unbounded 构造不限容量
func Unbounded() Capacity {
	return Capacity{unbounded: true}
}

// IsUnbounded 是否不限容量
func (c Capacity) IsUnbounded() bool {
	return c.unbounded
}

// Value 有限容量的数值，Unbounded 时无意义
func (c Capacity) Value() int64 {
	return c.value
}

// AtLeast 容量是否足以容纳 n
func (c Capacity) AtLeast(n int64) bool {
	return c.unbounded || c.value >= n
}

// String 供日志输出
func (c Capacity) String() string {
	if c.unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("%d", c.value)
}

// effectiveLimit 按超分配百分比计算有效容量上限
// pct == -1 表示不限制，pct >= 0 表示允许超出标称容量 pct%
func effectiveLimit(nominal int64, pct int64) Capacity {
	if pct < 0 {
		return Unbounded()
	}
	return Bounded(nominal + nominal*pct/100)
}

// headroom 有效上限减去已分配量后的剩余容量
func headroom(nominal, pct, allocated int64) Capacity {
	limit := effectiveLimit(nominal, pct)
	if limit.IsUnbounded() {
		return Unbounded()
	}
	free := limit.Value() - allocated
	if free < 0 {
		free = 0
	}
	return Bounded(free)
}

// Placement 选中的部署位置
type Placement struct {
	NodeID       int64
	NodeName     string
	AllocationID int64
}

// Selector 节点选择器，为新实例挑选部署节点
// 每次选择都实时查询面板库存，不做缓存
type Selector struct {
	panelClient panel.Client
}

// NewSelector 创建 Selector
func NewSelector(panelClient panel.Client) *Selector {
	return &Selector{panelClient: panelClient}
}

// selectorCandidate 通过资源筛选的候选节点
type selectorCandidate struct {
	node        panel.Node
	memHeadroom Capacity
	allocations []panel.Allocation
}

// Select 为给定资源需求挑选节点和网络分配
// 选择规则：内存不限容量的节点优先（按空闲分配数多者优先），
// 其余按内存剩余容量从大到小排序，取第一个空闲分配（端口升序）
func (s *Selector) Select(ctx context.Context, memoryMB, diskMB int64, preferredNodeID int64) (*Placement, error) {
	logger := zerolog.Ctx(ctx)

	nodes, err := s.panelClient.ListNodes(ctx)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrUpstreamUnavailable, "Failed to list panel nodes", err)
	}
	if len(nodes) == 0 {
		return nil, apierror.WrapError(apierror.ErrNoCapacity, "fleet has no nodes", nil)
	}

	// 指定节点时把候选范围收窄到该节点
	if preferredNodeID != 0 {
		found := false
		for _, n := range nodes {
			if n.ID == preferredNodeID {
				nodes = []panel.Node{n}
				found = true
				break
			}
		}
		if !found {
			return nil, apierror.WrapError(apierror.ErrUpstreamUnavailable,
				fmt.Sprintf("preferred node %d not found", preferredNodeID), nil)
		}
	}

	// 双维度资源筛选：内存和磁盘的剩余容量都要放得下
	candidates := make([]selectorCandidate, 0, len(nodes))
	for _, n := range nodes {
		memFree := headroom(n.MemoryMB, n.MemoryOverallocate, n.AllocatedMemoryMB)
		diskFree := headroom(n.DiskMB, n.DiskOverallocate, n.AllocatedDiskMB)
		if !memFree.AtLeast(memoryMB) || !diskFree.AtLeast(diskMB) {
			logger.Debug().
				Int64("node_id", n.ID).
				Str("mem_headroom", memFree.String()).
				Str("disk_headroom", diskFree.String()).
				Msg("Node skipped: insufficient headroom")
			continue
		}
		candidates = append(candidates, selectorCandidate{node: n, memHeadroom: memFree})
	}
	if len(candidates) == 0 {
		return nil, apierror.WrapError(apierror.ErrNoCapacity,
			fmt.Sprintf("no node can fit %d MB memory and %d MB disk", memoryMB, diskMB), nil)
	}

	// 没有空闲网络分配的节点放不下新实例
	withAllocations := make([]selectorCandidate, 0, len(candidates))
	for _, c := range candidates {
		allocations, err := s.panelClient.ListFreeAllocations(ctx, c.node.ID)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrUpstreamUnavailable, "Failed to list node allocations", err)
		}
		if len(allocations) == 0 {
			continue
		}
		c.allocations = allocations
		withAllocations = append(withAllocations, c)
	}
	if len(withAllocations) == 0 {
		return nil, apierror.WrapError(apierror.ErrNoCapacity, "no free allocation on any candidate node", nil)
	}

	sort.SliceStable(withAllocations, func(i, j int) bool {
		a, b := withAllocations[i], withAllocations[j]
		if a.memHeadroom.IsUnbounded() != b.memHeadroom.IsUnbounded() {
			return a.memHeadroom.IsUnbounded()
		}
		if a.memHeadroom.IsUnbounded() {
			return len(a.allocations) > len(b.allocations)
		}
		return a.memHeadroom.Value() > b.memHeadroom.Value()
	})

	winner := withAllocations[0]
	logger.Info().
		Int64("node_id", winner.node.ID).
		Str("node_name", winner.node.Name).
		Int64("allocation_id", winner.allocations[0].ID).
		Str("mem_headroom", winner.memHeadroom.String()).
		Msg("Selected node for placement")

	return &Placement{
		NodeID:       winner.node.ID,
		NodeName:     winner.node.Name,
		AllocationID: winner.allocations[0].ID,
	}, nil
}
