package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/output"
)

var _ output.EventStore = (*EventStore)(nil)

const selectEvents = `
SELECT id, position, title, description, channel_id, creator_id, start_at, end_text,
       max_attendees, color, image, mention_roles, allowed_roles, assign_role,
       multi_response, registration_open, registration_close, reminder_sent,
       channel_created, participants, message_id, thread_id
FROM events
ORDER BY position`

const insertEvent = `
INSERT INTO events (id, position, title, description, channel_id, creator_id, start_at, end_text,
       max_attendees, color, image, mention_roles, allowed_roles, assign_role,
       multi_response, registration_open, registration_close, reminder_sent,
       channel_created, participants, message_id, thread_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

// DB is the subset of *pgxpool.Pool used by EventStore.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// EventStore implements output.EventStore on PostgreSQL. The whole
// collection is replaced in a single transaction on every save.
type EventStore struct {
	db  DB
	loc *time.Location
	now func() time.Time
}

func NewEventStore(db DB, loc *time.Location) *EventStore {
	if loc == nil {
		loc = time.Local
	}
	return &EventStore{db: db, loc: loc, now: time.Now}
}

func (s *EventStore) LoadAll(ctx context.Context) ([]entities.Event, error) {
	rows, err := s.db.Query(ctx, selectEvents)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[eventRow])
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	events := make([]entities.Event, 0, len(records))
	for _, r := range records {
		e, err := eventToDomain(r, s.loc)
		if err != nil {
			s.backup(ctx)
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *EventStore) SaveAll(ctx context.Context, events []entities.Event) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM events`); err != nil {
			return fmt.Errorf("delete events: %w", err)
		}
		batch := &pgx.Batch{}
		for i, e := range events {
			r, err := eventFromDomain(e, i)
			if err != nil {
				return err
			}
			batch.Queue(insertEvent,
				r.ID, r.Position, r.Title, r.Description, r.ChannelID, r.CreatorID, r.StartAt, r.EndText,
				r.MaxAttendees, r.Color, r.Image, r.MentionRoles, r.AllowedRoles, r.AssignRole,
				r.MultiResponse, r.RegistrationOpen, r.RegistrationClose, r.ReminderSent,
				r.ChannelCreated, r.Participants, r.MessageID, r.ThreadID,
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert events: %w", err)
		}
		return nil
	})
}

// backup copies the events table aside before the caller starts empty, so
// the next SaveAll does not destroy the only copy of an unreadable row.
func (s *EventStore) backup(ctx context.Context) {
	table := pgx.Identifier{fmt.Sprintf("events_corrupt_%d", s.now().Unix())}.Sanitize()
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, "CREATE TABLE "+table+" AS TABLE events")
		return err
	})
	if err != nil {
		log.Printf("❌ No se pudo respaldar la tabla events en %s: %v", table, err)
		return
	}
	log.Printf("⚠️ Tabla events dañada respaldada en %s", table)
}
