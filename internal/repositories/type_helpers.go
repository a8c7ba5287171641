// Package repositories 提供数据访问层实现，负责与持久化存储交互。
// 该层实现 Service 层定义的 Repository 接口，隔离底层存储细节。
package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// 数据层哨兵错误，由 Service 层映射为 API 错误。
var (
	ErrAssetNotFound     = errors.New("video asset not found")
	ErrIngestJobNotFound = errors.New("ingest job not found")
	ErrSeriesNotFound    = errors.New("series not found")
	ErrSeasonNotFound    = errors.New("season not found")
	ErrEpisodeNotFound   = errors.New("episode not found")
	ErrMovieNotFound     = errors.New("movie not found")
	ErrTrailerNotFound   = errors.New("trailer not found")
	ErrAdNotFound        = errors.New("ad creative not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrAdminUserNotFound = errors.New("admin user not found")
)

// dbtx 抽象连接池与事务的共同查询能力，使仓储方法可透明运行在 TxManager Session 内。
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// querier 返回当前应使用的查询执行器：处于事务时使用 Session 绑定的 Tx。
func querier(pool *pgxpool.Pool, sess txmanager.Session) dbtx {
	if sess != nil {
		return sess.Tx()
	}
	return pool
}

// marshalStringMap 将 map 编码为 jsonb 写入值，空 map 编码为 NULL。
func marshalStringMap(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb map: %w", err)
	}
	return data, nil
}

// unmarshalStringMap 解析 jsonb 列，NULL 返回 nil。
func unmarshalStringMap(data []byte) (map[string]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal jsonb map: %w", err)
	}
	return m, nil
}

func utcOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
