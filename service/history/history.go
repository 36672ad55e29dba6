package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/cheng762/stolen-report/service/leaderboard"
)

// Snapshot 某一天的汇总，同一天多次写入只保留最后一次
type Snapshot struct {
	Day         time.Time `json:"day"`
	TotalValue  float64   `json:"totalValue"`
	TotalStolen int64     `json:"totalStolen"`
	Collections int       `json:"collections"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(ctx context.Context, dsn string) (*Store, error) {
	// DATE/DATETIME 需要扫描成 time.Time，统一按 UTC
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("解析 MYSQL_DSN 失败: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("打开 MySQL 失败: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接 MySQL 失败: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stolen_summary_snapshots (
			day DATE NOT NULL PRIMARY KEY,
			total_value DOUBLE NOT NULL,
			total_stolen BIGINT NOT NULL,
			collections INT NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("创建快照表失败: %w", err)
	}
	return nil
}

// Record 写入 day 当天（UTC）的汇总
func (s *Store) Record(ctx context.Context, day time.Time, summary leaderboard.Summary, collections int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stolen_summary_snapshots (day, total_value, total_stolen, collections, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			total_value = VALUES(total_value),
			total_stolen = VALUES(total_stolen),
			collections = VALUES(collections),
			updated_at = VALUES(updated_at)
	`, truncateDay(day), summary.TotalValue, summary.TotalStolen, collections, s.now().UTC())
	if err != nil {
		return fmt.Errorf("保存快照失败: %w", err)
	}
	return nil
}

// Since 返回 since 当天及之后的快照，按日期升序
func (s *Store) Since(ctx context.Context, since time.Time) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, total_value, total_stolen, collections, updated_at
		FROM stolen_summary_snapshots
		WHERE day >= ?
		ORDER BY day ASC
	`, truncateDay(since))
	if err != nil {
		return nil, fmt.Errorf("查询快照失败: %w", err)
	}
	defer rows.Close()

	out := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.Day, &snap.TotalValue, &snap.TotalStolen, &snap.Collections, &snap.UpdatedAt); err != nil {
			return nil, fmt.Errorf("读取快照失败: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
