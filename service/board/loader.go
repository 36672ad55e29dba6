package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cheng762/stolen-report/service/data_adaptor"
	"github.com/cheng762/stolen-report/service/leaderboard"
)

type Fetcher interface {
	FetchPage(ctx context.Context, page int) ([]data_adaptor.RawCollection, error)
}

// Purger 刷新前清掉缓存的页面
type Purger interface {
	Purge(ctx context.Context) error
}

// Recorder 每次完整加载后记录当天的汇总
type Recorder interface {
	Record(ctx context.Context, day time.Time, summary leaderboard.Summary, collections int) error
}

type LoaderOptions struct {
	// 首屏之后最多再拉取多少页，0 表示只用首屏
	MaxPages     int
	RefreshEvery time.Duration
	Cache        Purger
	Recorder     Recorder
	Logger       *slog.Logger
}

type Loader struct {
	fetcher Fetcher
	board   *Board
	opts    LoaderOptions
	log     *slog.Logger
}

func NewLoader(fetcher Fetcher, board *Board, opts LoaderOptions) *Loader {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		fetcher: fetcher,
		board:   board,
		opts:    opts,
		log:     log.With("component", "loader"),
	}
}

// Load 拉取首屏和后续分页。看板为空时（首次加载）边拉边发布，尽快有数据可看；
// 刷新时先收齐所有分页再一次性替换，避免客户端看到缩水的榜单。
// 后续页失败只记录日志，保留已拉到的数据
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	first, err := l.fetcher.FetchPage(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("获取首屏数据失败: %w", err)
	}
	progressive := len(l.board.Snapshot().Records) == 0

	var snap *Snapshot
	collected := first
	if progressive {
		snap = l.board.Replace(first)
	}
	l.log.Info("首屏数据已获取", "records", len(first), "refresh", !progressive)

	for page := 1; page <= l.opts.MaxPages; page++ {
		more, err := l.fetcher.FetchPage(ctx, page)
		if errors.Is(err, data_adaptor.ErrNoMorePages) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				if snap == nil {
					snap = l.board.Snapshot()
				}
				return snap, ctx.Err()
			}
			l.log.Warn("获取分页数据失败", "page", page, "err", err)
			break
		}
		if progressive {
			snap = l.board.Merge(more)
		} else {
			collected = append(slices.Clip(collected), more...)
		}
		l.log.Debug("分页数据已合并", "page", page, "records", len(more))
	}
	if !progressive {
		snap = l.board.Replace(collected)
	}

	if l.opts.Recorder != nil {
		if err := l.opts.Recorder.Record(ctx, snap.BuiltAt, snap.Views.Summary, len(snap.Records)); err != nil {
			l.log.Warn("保存每日快照失败", "err", err)
		}
	}
	return snap, nil
}

// Run 先加载一次，之后按 RefreshEvery 周期刷新，直到 ctx 取消
func (l *Loader) Run(ctx context.Context) error {
	if _, err := l.Load(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		l.log.Error("首次加载失败", "err", err)
	}
	if l.opts.RefreshEvery <= 0 {
		return nil
	}

	ticker := time.NewTicker(l.opts.RefreshEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if l.opts.Cache != nil {
				if err := l.opts.Cache.Purge(ctx); err != nil {
					l.log.Warn("清理缓存失败", "err", err)
				}
			}
			if _, err := l.Load(ctx); err != nil && ctx.Err() == nil {
				l.log.Error("刷新数据失败", "err", err)
			}
		}
	}
}
