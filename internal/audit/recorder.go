// Package audit appends immutable records of privileged admin actions.
package audit

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one append-only activity log record. Rows are never updated
// or deleted.
type Entry struct {
	ActorID     int64
	Action      string
	TargetType  string
	TargetID    int64
	Description string
	IP          string
	UserAgent   string
	At          time.Time
}

// Store persists entries. Kept as an interface so handlers can be tested
// without PostgreSQL.
type Store interface {
	Insert(ctx context.Context, entry Entry) error
}

// PGStore writes entries into activity_logs.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PGStore.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Insert appends one record.
func (s *PGStore) Insert(ctx context.Context, entry Entry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO activity_logs (actor_id, action, target_type, target_id, description, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)`,
		entry.ActorID, entry.Action, entry.TargetType, entry.TargetID, entry.Description, entry.IP, entry.UserAgent, entry.At.UTC())
	return err
}

var _ Store = (*PGStore)(nil)

// Recorder is the activity auditor. Writes are best-effort: the mutation
// an entry describes has already committed by the time Record runs, so a
// failed write is surfaced to operational logging and otherwise dropped.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record appends one entry. It never returns an error and never blocks
// the business mutation it describes.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil || r.store == nil {
		return
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	if err := r.store.Insert(ctx, entry); err != nil {
		if r.logger != nil {
			r.logger.Error("audit write failed",
				slog.String("action", entry.Action),
				slog.String("target_type", entry.TargetType),
				slog.Int64("target_id", entry.TargetID),
				slog.Any("error", err))
		}
	}
}

// Provenance captures request origin details for an entry. RemoteAddr is
// the bare address when RealIP middleware has rewritten it; on direct
// connections the ip:port form is reduced to the host so the stored ip
// column stays uniform.
func Provenance(r *http.Request) (ip, userAgent string) {
	ip = r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return ip, r.UserAgent()
}
