package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cheng762/stolen-report/common"
	"github.com/cheng762/stolen-report/config"
	"github.com/cheng762/stolen-report/service/board"
	"github.com/cheng762/stolen-report/service/history"
	"github.com/cheng762/stolen-report/service/leaderboard"
	"github.com/cheng762/stolen-report/service/live"
	"github.com/cheng762/stolen-report/service/page"
)

// /api/history 不带 since 时默认返回最近 30 天
const defaultHistoryDays = 30

type historyReader interface {
	Since(ctx context.Context, since time.Time) ([]history.Snapshot, error)
}

type server struct {
	cfg     *config.Config
	board   *board.Board
	hub     *live.Hub
	history historyReader // nil 表示未启用
	now     func() time.Time
}

func router(s *server) *gin.Engine {
	if s.now == nil {
		s.now = time.Now
	}

	// Creates a gin router with default middleware:
	// logger and recovery (crash-free) middleware
	r := gin.Default()
	r.SetHTMLTemplate(page.Templates())

	r.GET("/", s.report)
	r.GET("/collections/:contract", s.collection)

	// API
	api := r.Group("/api")
	api.GET("/report", s.apiReport)
	api.GET("/collections/:contract", s.apiCollection)
	api.GET("/history", s.apiHistory)

	r.GET("/ws", gin.WrapF(s.hub.Handler()))
	r.GET("/health", s.health)
	return r
}

// CHAIN_ID 没配置时页面只显示错误提示
func (s *server) pageReady(c *gin.Context) bool {
	if s.cfg.ChainID == "" {
		c.HTML(http.StatusInternalServerError, page.ErrorTemplate, nil)
		return false
	}
	return true
}

func (s *server) report(c *gin.Context) {
	if !s.pageReady(c) {
		return
	}
	if s.cfg.Page.RedirectHomepage && s.cfg.Page.Collection != "" {
		c.Redirect(http.StatusFound, leaderboard.CollectionPath(s.cfg.Page.Collection))
		return
	}
	c.HTML(http.StatusOK, page.ReportTemplate, page.NewReport(s.cfg.Page, s.board.Snapshot(), s.now()))
}

func (s *server) collection(c *gin.Context) {
	if !s.pageReady(c) {
		return
	}
	record, ok := s.board.Lookup(c.Param("contract"))
	if !ok {
		c.String(http.StatusNotFound, "collection not found")
		return
	}
	c.HTML(http.StatusOK, page.CollectionTemplate, page.NewCollection(s.cfg.Page, record, s.now()))
}

func (s *server) apiReport(c *gin.Context) {
	snap := s.board.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"summary": snap.Views.Summary,
		"byValue": snap.Views.ByValue,
		"byCount": snap.Views.ByCount,
		"builtAt": snap.BuiltAt,
		"records": len(snap.Records),
	})
}

func (s *server) apiCollection(c *gin.Context) {
	record, ok := s.board.Lookup(c.Param("contract"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *server) apiHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is not enabled"})
		return
	}

	since := s.now().AddDate(0, 0, -defaultHistoryDays)
	if raw := c.Query("since"); raw != "" {
		t, err := common.ParseTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		since = t
	}

	snaps, err := s.history.Since(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snaps)
}

func (s *server) health(c *gin.Context) {
	snap := s.board.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"records": len(snap.Records),
		"builtAt": snap.BuiltAt,
		"clients": s.hub.ClientCount(),
	})
}
