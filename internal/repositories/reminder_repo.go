package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReminderRepository 负责 catalog.reminders 表的读写。
type ReminderRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewReminderRepository 构造提醒仓储。
func NewReminderRepository(pool *pgxpool.Pool, logger log.Logger) *ReminderRepository {
	return &ReminderRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

// Create 创建提醒排期记录。
func (r *ReminderRepository) Create(ctx context.Context, sess txmanager.Session, m *po.Reminder) (*po.Reminder, error) {
	query := `
		INSERT INTO catalog.reminders (reminder_id, title_type, title_id, channel, send_at, sent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query,
		m.ReminderID, m.TitleType, m.TitleID, m.Channel, m.SendAt, m.Sent,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("Create reminder failed: %v", err)
		return nil, fmt.Errorf("insert reminder: %w", err)
	}
	return m, nil
}

// FindByID 根据 reminder_id 查询。
func (r *ReminderRepository) FindByID(ctx context.Context, sess txmanager.Session, reminderID uuid.UUID) (*po.Reminder, error) {
	query := `
		SELECT reminder_id, title_type, title_id, channel, send_at, sent, created_at, updated_at
		FROM catalog.reminders
		WHERE reminder_id = $1
	`

	var m po.Reminder
	err := querier(r.pool, sess).QueryRow(ctx, query, reminderID).Scan(
		&m.ReminderID, &m.TitleType, &m.TitleID, &m.Channel, &m.SendAt, &m.Sent, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("query reminder: %w", err)
	}
	return &m, nil
}

// ListPending 返回到期未发送的提醒（先到先发）。
func (r *ReminderRepository) ListPending(ctx context.Context, before time.Time, limit int) ([]*po.Reminder, error) {
	if limit <= 0 {
		limit = 100 // 默认限制
	}

	query := `
		SELECT reminder_id, title_type, title_id, channel, send_at, sent, created_at, updated_at
		FROM catalog.reminders
		WHERE sent = false AND send_at <= $1
		ORDER BY send_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, before.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("query pending reminders: %w", err)
	}
	defer rows.Close()

	var out []*po.Reminder
	for rows.Next() {
		var m po.Reminder
		if err := rows.Scan(
			&m.ReminderID, &m.TitleType, &m.TitleID, &m.Channel, &m.SendAt, &m.Sent, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reminder row: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminder rows: %w", err)
	}
	return out, nil
}

// MarkSent 标记提醒已发送。
func (r *ReminderRepository) MarkSent(ctx context.Context, sess txmanager.Session, reminderID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx,
		`UPDATE catalog.reminders SET sent = true, updated_at = now() WHERE reminder_id = $1`, reminderID)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReminderNotFound
	}
	return nil
}

// Delete 删除提醒记录。
func (r *ReminderRepository) Delete(ctx context.Context, sess txmanager.Session, reminderID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.reminders WHERE reminder_id = $1`, reminderID)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReminderNotFound
	}
	return nil
}
