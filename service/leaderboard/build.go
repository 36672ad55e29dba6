package leaderboard

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/cheng762/stolen-report/service/data_adaptor"
)

// DefaultLimit 每个榜单展示的条数
const DefaultLimit = 10

// Summary 全部已加载记录的汇总（不只是前 10）
type Summary struct {
	TotalValue  float64 `json:"totalValue"`
	TotalStolen int64   `json:"totalStolen"`
}

// Entry 榜单中的一行，Rank 从 1 开始，两个榜单各自独立
type Entry struct {
	Rank int    `json:"rank"`
	Key  string `json:"key"`
	Record
}

type Views struct {
	Summary Summary `json:"summary"`
	ByValue []Entry `json:"byValue"`
	ByCount []Entry `json:"byCount"`
}

func Build(raws []data_adaptor.RawCollection) Views {
	return BuildWithLimit(raws, DefaultLimit)
}

// BuildWithLimit 归一化后分别按估值、被盗数量稳定排序取前 limit 条；
// 相同值保持输入顺序
func BuildWithLimit(raws []data_adaptor.RawCollection, limit int) Views {
	records := make([]Record, len(raws))
	for i, raw := range raws {
		records[i] = Normalize(raw)
	}
	return FromRecords(records, limit)
}

// FromRecords records 不会被修改
func FromRecords(records []Record, limit int) Views {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var summary Summary
	for _, r := range records {
		summary.TotalValue = addValue(summary.TotalValue, r.EstimatedValue)
		summary.TotalStolen = addCount(summary.TotalStolen, r.StolenCount)
	}

	return Views{
		Summary: summary,
		ByValue: top(records, limit, func(a, b Record) int {
			return cmp.Compare(b.EstimatedValue, a.EstimatedValue)
		}),
		ByCount: top(records, limit, func(a, b Record) int {
			return cmp.Compare(b.StolenCount, a.StolenCount)
		}),
	}
}

func top(records []Record, limit int, compare func(a, b Record) int) []Entry {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, compare)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]Entry, len(sorted))
	for i, r := range sorted {
		entries[i] = Entry{
			Rank:   i + 1,
			Key:    r.ContractAddress + "-" + strconv.Itoa(i),
			Record: r,
		}
	}
	return entries
}

// 汇总溢出时停在最大值，保证结果始终是有限数
func addValue(total, v float64) float64 {
	sum := total + v
	if math.IsInf(sum, 0) || math.IsNaN(sum) {
		return math.MaxFloat64
	}
	return sum
}

func addCount(total, n int64) int64 {
	if n > 0 && total > math.MaxInt64-n {
		return math.MaxInt64
	}
	return total + n
}
