package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"github.com/cheng762/stolen-report/common"
	"github.com/cheng762/stolen-report/config"
	"github.com/cheng762/stolen-report/service/board"
	"github.com/cheng762/stolen-report/service/cache"
	"github.com/cheng762/stolen-report/service/console"
	"github.com/cheng762/stolen-report/service/data_adaptor"
	"github.com/cheng762/stolen-report/service/history"
	"github.com/cheng762/stolen-report/service/live"
	"github.com/cheng762/stolen-report/service/page"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configFlag := &cli.StringFlag{
		Name:  "config",
		Usage: "path of the yaml config file",
	}

	cmd := &cli.Command{
		Name:  "stolen-report",
		Usage: "stolen NFTs report",
		Commands: []*cli.Command{{
			Name:   "start",
			Usage:  "start service",
			Flags:  []cli.Flag{configFlag},
			Action: start,
		},
			{
				Name:   "console",
				Usage:  "print the report in the console",
				Flags:  []cli.Flag{configFlag},
				Action: printReport,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// pageCache 原始页面缓存，刷新前需要能清空
type pageCache interface {
	data_adaptor.PageCache
	board.Purger
}

func loadConfig(cmd *cli.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	logger := common.SetupLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newFetcher(cfg *config.Config, c data_adaptor.PageCache, logger *slog.Logger) *data_adaptor.Client {
	return data_adaptor.NewClient(data_adaptor.Options{
		SummaryURL:      cfg.SummaryURL(),
		APIKey:          cfg.APIKey,
		Community:       cfg.Community,
		CollectionSetID: cfg.CollectionSetID,
		Timeout:         cfg.HTTPTimeout,
		Cache:           c,
		Logger:          logger,
	})
}

// newCache 配了 REDIS_ADDR 用 Redis，否则用进程内缓存
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pageCache, func()) {
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		err := rdb.Ping(ctx)
		if err == nil {
			logger.Info("使用 Redis 页面缓存", "addr", cfg.RedisAddr)
			return rdb, func() { _ = rdb.Close() }
		}
		logger.Warn("连接 Redis 失败，改用内存缓存", "addr", cfg.RedisAddr, "err", err)
		_ = rdb.Close()
	}
	return cache.NewMemory(cfg.CacheTTL), func() {}
}

func start(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Env == common.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pages, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()

	b := board.New(cfg.LeaderboardSize)
	hub := live.NewHub(b.Snapshot, logger)
	defer hub.Close()
	b.OnRebuild(hub.Broadcast)

	srv := &server{cfg: cfg, board: b, hub: hub}
	opts := board.LoaderOptions{
		MaxPages:     cfg.MaxPages,
		RefreshEvery: cfg.RefreshEvery,
		Cache:        pages,
		Logger:       logger,
	}
	if cfg.MySQLDSN != "" {
		store, err := history.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		srv.history = store
		opts.Recorder = store
	}

	loader := board.NewLoader(newFetcher(cfg, pages, logger), b, opts)
	go func() {
		_ = loader.Run(ctx)
	}()

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router(srv),
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http 服务已启动", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server 启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// printReport 拉取一次数据并打印到终端
func printReport(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	b := board.New(cfg.LeaderboardSize)
	loader := board.NewLoader(newFetcher(cfg, nil, logger), b, board.LoaderOptions{
		MaxPages: cfg.MaxPages,
		Logger:   logger,
	})
	snap, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	data := page.NewReport(cfg.Page, snap, time.Now())
	return console.Print(os.Stdout, console.Report{
		Title:   data.Meta.Title,
		Tagline: data.Tagline,
		Date:    data.Date,
		Snap:    snap,
	})
}
