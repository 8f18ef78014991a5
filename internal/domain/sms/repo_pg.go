package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/starkeyhf/clinic-api/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// queryable abstracts pgxpool.Pool and pgxpool.Conn for request-scoped queries.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) Insert(ctx context.Context, entry *LogEntry) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO sms_logs (patient_id, recipient_number, message, status, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING sms_log_id`,
		entry.PatientID, entry.RecipientNumber, entry.Message, entry.Status, entry.SentAt,
	).Scan(&entry.ID)
}

func (r *repoPG) List(ctx context.Context) ([]*LogView, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT s.sms_log_id, s.patient_id,
		       COALESCE(p.first_name, '') || ' ' || COALESCE(p.surname, '') AS patient_name,
		       s.recipient_number, s.message, s.status, s.sent_at
		FROM sms_logs s
		LEFT JOIN patients p ON s.patient_id = p.id
		ORDER BY s.sent_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sms logs: %w", err)
	}
	defer rows.Close()

	var views []*LogView
	for rows.Next() {
		var v LogView
		if err := rows.Scan(
			&v.ID, &v.PatientID, &v.PatientName, &v.RecipientNumber,
			&v.Message, &v.Status, &v.SentAt,
		); err != nil {
			return nil, fmt.Errorf("scan sms log: %w", err)
		}
		v.PatientName = strings.TrimSpace(v.PatientName)
		if v.PatientName == "" {
			v.PatientName = "Unknown"
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sms logs: %w", err)
	}
	return views, nil
}
