// Package postgres implements the tracking repositories against PostgreSQL.
//
// All mutating operations run through Store.WithinTx so a request's writes
// commit or roll back as one unit. Inside a transaction, Get calls take
// FOR UPDATE row locks so concurrent handoffs on the same subject serialize
// instead of interleaving. Domain events are published through a Watermill
// publisher bound to the same transaction (transactional outbox).
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/steritrack/pkg/database"
	"github.com/ghuser/steritrack/pkg/events"
	"github.com/ghuser/steritrack/services/tracking/domain"
	domainevents "github.com/ghuser/steritrack/services/tracking/domain/events"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements repositories.Store against PostgreSQL.
type Store struct {
	db  *database.Database
	bus *events.EventBus
}

// NewStore returns a Store backed by the given connection pool and event bus.
// The bus may be nil; events are then not published.
func NewStore(db *database.Database, bus *events.EventBus) *Store {
	return &Store{db: db, bus: bus}
}

// repoSet carries the querier shared by all repositories of one scope.
// For the non-transactional scope q is the pool, pub is nil and locking is
// off. Inside WithinTx q is the *sql.Tx, pub is a transaction-bound
// publisher and Get queries lock the rows they read.
type repoSet struct {
	q       querier
	pub     message.Publisher
	locking bool
}

func (s *Store) repos() *repoSet { return &repoSet{q: s.db.DB()} }

// Items returns the item repository outside any transaction.
func (s *Store) Items() repositories.ItemRepository { return &itemsRepo{s.repos()} }

// Groups returns the group repository outside any transaction.
func (s *Store) Groups() repositories.GroupRepository { return &groupsRepo{s.repos()} }

// Requests returns the forwarding request repository outside any transaction.
func (s *Store) Requests() repositories.RequestRepository { return &requestsRepo{s.repos()} }

// Slots returns the storage slot repository outside any transaction.
func (s *Store) Slots() repositories.SlotRepository { return &slotsRepo{s.repos()} }

// Audit returns the audit repository outside any transaction.
func (s *Store) Audit() repositories.AuditRepository { return &auditRepo{s.repos()} }

// WithinTx runs fn with a transactional repository set. Events published
// by the repositories inside fn commit atomically with the data changes.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repositories.Repos) error) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		rs := &repoSet{q: tx, locking: true}
		if s.bus != nil {
			pub, err := s.bus.NewTxPublisher(tx)
			if err != nil {
				return fmt.Errorf("create tx publisher: %w", err)
			}
			rs.pub = pub
		}
		return fn(&txRepos{rs: rs})
	})
}

// txRepos exposes the transactional scope as repositories.Repos.
type txRepos struct {
	rs *repoSet
}

func (t *txRepos) Items() repositories.ItemRepository       { return &itemsRepo{t.rs} }
func (t *txRepos) Groups() repositories.GroupRepository     { return &groupsRepo{t.rs} }
func (t *txRepos) Requests() repositories.RequestRepository { return &requestsRepo{t.rs} }
func (t *txRepos) Slots() repositories.SlotRepository       { return &slotsRepo{t.rs} }
func (t *txRepos) Audit() repositories.AuditRepository      { return &auditRepo{t.rs} }

// isUniqueViolation reports whether err is a PostgreSQL unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// publish marshals event and sends it on topic through the scope's
// transaction-bound publisher. A nil publisher makes publish a no-op.
func (rs *repoSet) publish(topic string, eventID uuid.UUID, event any) error {
	if rs.pub == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", "1")
	return rs.pub.Publish(topic, msg)
}

func (rs *repoSet) publishItemChanged(item *models.Item) error {
	event := domainevents.ItemChangedEvent{
		EventID:       uuid.New(),
		Version:       1,
		ItemID:        item.ID,
		Name:          item.Name,
		CompanyPrefix: item.CompanyPrefix,
		TypeCode:      item.TypeCode,
		Serial:        item.Serial,
		Status:        item.Status.String(),
		Location:      string(item.Location),
		OccurredAt:    item.UpdatedAt,
	}
	if err := rs.publish(domainevents.TopicItemChanged, event.EventID, event); err != nil {
		return fmt.Errorf("publish item changed: %w", err)
	}
	return nil
}

func (rs *repoSet) publishAuditAppended(rec *models.AuditRecord) error {
	event := domainevents.AuditAppendedEvent{
		EventID:       uuid.New(),
		Version:       1,
		RecordID:      rec.ID,
		ItemID:        rec.ItemID,
		Action:        string(rec.Action),
		From:          string(rec.From),
		To:            string(rec.To),
		ActorUsername: rec.ActorUsername,
		ActorRole:     string(rec.ActorRole),
		OccurredAt:    rec.Timestamp,
	}
	if err := rs.publish(domainevents.TopicAuditAppended, event.EventID, event); err != nil {
		return fmt.Errorf("publish audit appended: %w", err)
	}
	return nil
}

// forUpdate appends a row lock clause when the scope is transactional.
func (rs *repoSet) forUpdate(query string) string {
	if rs.locking {
		return query + " FOR UPDATE"
	}
	return query
}

func wrapNotFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
