package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gravadigital/amigo-secreto-api/internal/storage/migrations"
)

// TableStats are the pg_stat_user_tables figures for one of our tables
type TableStats struct {
	TableName    string     `json:"table_name"`
	LiveRows     int64      `json:"live_rows"`
	DeadRows     int64      `json:"dead_rows"`
	TableSize    string     `json:"table_size"`
	IndexSize    string     `json:"index_size"`
	LastAnalyzed *time.Time `json:"last_analyzed"`
}

// ConnectionStats counts server side sessions on the current database
type ConnectionStats struct {
	TotalConnections   int     `json:"total_connections"`
	ActiveConnections  int     `json:"active_connections"`
	IdleConnections    int     `json:"idle_connections"`
	MaxConnections     int     `json:"max_connections"`
	ConnectionsPercent float64 `json:"connections_percent"`
}

// GetTableStats reports size and tuple counts for the group tables only
func GetTableStats(ctx context.Context, db *gorm.DB) ([]TableStats, error) {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			relname,
			n_live_tup,
			n_dead_tup,
			pg_size_pretty(pg_total_relation_size(relid)),
			pg_size_pretty(pg_indexes_size(relid)),
			GREATEST(last_analyze, last_autoanalyze)
		FROM pg_stat_user_tables
		WHERE relname IN ?
		ORDER BY relname
	`, migrations.TableNames()).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to read table stats: %w", err)
	}
	defer rows.Close()

	stats := make([]TableStats, 0)
	for rows.Next() {
		var s TableStats
		if err := rows.Scan(&s.TableName, &s.LiveRows, &s.DeadRows, &s.TableSize, &s.IndexSize, &s.LastAnalyzed); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func GetConnectionStats(ctx context.Context, db *gorm.DB) (*ConnectionStats, error) {
	var stats ConnectionStats

	row := db.WithContext(ctx).Raw(`
		SELECT
			count(*),
			count(*) FILTER (WHERE state = 'active'),
			count(*) FILTER (WHERE state = 'idle'),
			(SELECT setting::int FROM pg_settings WHERE name = 'max_connections')
		FROM pg_stat_activity
		WHERE datname = current_database()
	`).Row()

	if err := row.Scan(&stats.TotalConnections, &stats.ActiveConnections, &stats.IdleConnections, &stats.MaxConnections); err != nil {
		return nil, fmt.Errorf("failed to read connection stats: %w", err)
	}

	if stats.MaxConnections > 0 {
		stats.ConnectionsPercent = float64(stats.TotalConnections) / float64(stats.MaxConnections) * 100
	}
	return &stats, nil
}
