package board

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheng762/stolen-report/service/data_adaptor"
	"github.com/cheng762/stolen-report/service/leaderboard"
)

// Snapshot 某一时刻的完整数据，发布后只读
type Snapshot struct {
	Records []leaderboard.Record `json:"records"`
	Views   leaderboard.Views    `json:"views"`
	BuiltAt time.Time            `json:"builtAt"`
}

// Board 当前加载的集合。每次变更都生成新的切片并整体重算榜单，读取方不加锁
type Board struct {
	mu        sync.Mutex
	raws      []data_adaptor.RawCollection
	current   atomic.Pointer[Snapshot]
	limit     int
	listeners []func(*Snapshot)
	now       func() time.Time
}

func New(limit int) *Board {
	b := &Board{limit: limit, now: time.Now}
	b.current.Store(&Snapshot{Views: leaderboard.FromRecords(nil, limit)})
	return b
}

// OnRebuild 注册重算后的回调，回调在写锁内按顺序执行，必须很快返回
func (b *Board) OnRebuild(fn func(*Snapshot)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Replace 用新的一批数据替换全部记录
func (b *Board) Replace(raws []data_adaptor.RawCollection) *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rebuild(slices.Clone(raws))
}

// Merge 追加后续分页数据，不做去重（与上游分页结果保持一致）
func (b *Board) Merge(more []data_adaptor.RawCollection) *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := make([]data_adaptor.RawCollection, 0, len(b.raws)+len(more))
	next = append(next, b.raws...)
	next = append(next, more...)
	return b.rebuild(next)
}

func (b *Board) rebuild(raws []data_adaptor.RawCollection) *Snapshot {
	records := make([]leaderboard.Record, len(raws))
	for i, raw := range raws {
		records[i] = leaderboard.Normalize(raw)
	}
	snap := &Snapshot{
		Records: records,
		Views:   leaderboard.FromRecords(records, b.limit),
		BuiltAt: b.now().UTC(),
	}
	b.raws = raws
	b.current.Store(snap)
	for _, fn := range b.listeners {
		fn(snap)
	}
	return snap
}

func (b *Board) Snapshot() *Snapshot {
	return b.current.Load()
}

// Lookup 按合约地址查找（不区分大小写），返回第一条匹配
func (b *Board) Lookup(contract string) (leaderboard.Record, bool) {
	if contract == "" {
		return leaderboard.Record{}, false
	}
	for _, r := range b.Snapshot().Records {
		if strings.EqualFold(r.ContractAddress, contract) {
			return r, true
		}
	}
	return leaderboard.Record{}, false
}
