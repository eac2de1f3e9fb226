package pgstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/mentorkit/pkg/notifications"
	"github.com/dmitrymomot/mentorkit/pkg/pg"
)

const recordColumns = `id, user_id, type, priority, title, message, related_id, related_type,
	related_user, action_url, metadata, channels, read, read_at, expires_at, created_at, updated_at`

// Storage is a notifications.Storage backed by the notifications table.
type Storage struct {
	db  DB
	now func() time.Time
}

// NewStorage creates a storage on db.
func NewStorage(db DB) *Storage {
	return &Storage{db: db, now: time.Now}
}

func (s *Storage) Create(ctx context.Context, rec notifications.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
		rec.UpdatedAt = rec.CreatedAt
	}

	row, err := encodeRecord(rec)
	if err != nil {
		return "", err
	}

	var id string
	err = s.db.QueryRow(ctx, `INSERT INTO notifications (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`, row...).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

func (s *Storage) Get(ctx context.Context, id string) (*notifications.Record, error) {
	rec, err := scanRecord(s.db.QueryRow(ctx, `SELECT `+recordColumns+` FROM notifications WHERE id = $1`, id))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, notifications.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &rec, nil
}

func (s *Storage) List(ctx context.Context, userID string, opts notifications.ListOptions) ([]notifications.Record, error) {
	query, args := buildListQuery(userID, opts, s.now())
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]notifications.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// MarkAsRead flips the flag only on unread rows, so read_at of an already
// read row is preserved. The existence check sees the pre-update snapshot.
func (s *Storage) MarkAsRead(ctx context.Context, id string) (bool, error) {
	var found bool
	err := s.db.QueryRow(ctx, `
		WITH updated AS (
			UPDATE notifications SET read = TRUE, read_at = $2, updated_at = $2
			WHERE id = $1 AND read = FALSE
			RETURNING id
		)
		SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, id, s.now()).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return found, nil
}

func (s *Storage) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	tag, err := s.db.Exec(ctx, `UPDATE notifications SET read = TRUE, read_at = $2, updated_at = $2
		WHERE user_id = $1 AND read = FALSE AND (expires_at IS NULL OR expires_at >= $2)`, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Storage) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM notifications
		WHERE user_id = $1 AND read = FALSE AND (expires_at IS NULL OR expires_at >= $2)`, userID, s.now()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func (s *Storage) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE expires_at IS NOT NULL AND expires_at < $1`, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func buildListQuery(userID string, opts notifications.ListOptions, now time.Time) (string, []any) {
	var b strings.Builder
	args := []any{userID, now}
	b.WriteString(`SELECT ` + recordColumns + ` FROM notifications
		WHERE user_id = $1 AND (expires_at IS NULL OR expires_at >= $2)`)

	if opts.OnlyUnread {
		b.WriteString(` AND read = FALSE`)
	}
	if len(opts.Types) > 0 {
		types := make([]string, len(opts.Types))
		for i, t := range opts.Types {
			types[i] = string(t)
		}
		args = append(args, types)
		b.WriteString(` AND type = ANY($` + strconv.Itoa(len(args)) + `)`)
	}
	if opts.Since != nil {
		args = append(args, *opts.Since)
		b.WriteString(` AND created_at > $` + strconv.Itoa(len(args)))
	}
	b.WriteString(` ORDER BY created_at DESC, id DESC`)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		b.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		b.WriteString(` OFFSET $` + strconv.Itoa(len(args)))
	}
	return b.String(), args
}

// encodeRecord returns the insert arguments in recordColumns order.
func encodeRecord(rec notifications.Record) ([]any, error) {
	var relatedID, relatedType *string
	if rec.Related != nil {
		relatedID, relatedType = &rec.Related.ID, &rec.Related.Type
	}

	relatedUser, err := marshalNullable(rec.RelatedUser)
	if err != nil {
		return nil, fmt.Errorf("encode related user: %w", err)
	}
	var metadata []byte
	if len(rec.Metadata) > 0 {
		if metadata, err = json.Marshal(rec.Metadata); err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
	}

	channels := make([]string, len(rec.Channels))
	for i, c := range rec.Channels {
		channels[i] = string(c)
	}

	return []any{
		rec.ID, rec.UserID, string(rec.Type), string(rec.EffectivePriority()), rec.Title, rec.Message,
		relatedID, relatedType, relatedUser, rec.ActionURL, metadata, channels,
		rec.Read, rec.ReadAt, rec.ExpiresAt, rec.CreatedAt, rec.UpdatedAt,
	}, nil
}

func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func scanRecord(row pgx.Row) (notifications.Record, error) {
	var rec notifications.Record
	var typ, priority string
	var relatedID, relatedType *string
	var relatedUser, metadata []byte
	var channels []string
	err := row.Scan(
		&rec.ID, &rec.UserID, &typ, &priority, &rec.Title, &rec.Message,
		&relatedID, &relatedType, &relatedUser, &rec.ActionURL, &metadata, &channels,
		&rec.Read, &rec.ReadAt, &rec.ExpiresAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}
	return decodeRecord(rec, typ, priority, relatedID, relatedType, relatedUser, metadata, channels)
}

func decodeRecord(
	rec notifications.Record,
	typ, priority string,
	relatedID, relatedType *string,
	relatedUser, metadata []byte,
	channels []string,
) (notifications.Record, error) {
	rec.Type = notifications.Type(typ)
	rec.Priority = notifications.Priority(priority)
	if relatedID != nil && relatedType != nil {
		rec.Related = &notifications.RelatedEntity{ID: *relatedID, Type: *relatedType}
	}
	if len(relatedUser) > 0 {
		rec.RelatedUser = &notifications.RelatedUser{}
		if err := json.Unmarshal(relatedUser, rec.RelatedUser); err != nil {
			return rec, fmt.Errorf("decode related user: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
			return rec, fmt.Errorf("decode metadata: %w", err)
		}
	}
	rec.Channels = make([]notifications.Channel, len(channels))
	for i, c := range channels {
		rec.Channels[i] = notifications.Channel(c)
	}
	return rec, nil
}
