package events

import (
	"context"
	"embed"
	"encoding/json"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	errs "storefront-cms/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type eventModel struct {
	Seq       int64     `gorm:"column:seq;primaryKey;autoIncrement"`
	EventID   string    `gorm:"column:event_id;uniqueIndex;not null"`
	HotelID   int64     `gorm:"column:hotel_id;index;not null"`
	SessionID string    `gorm:"column:session_id;not null"`
	Type      string    `gorm:"column:type;not null"`
	At        time.Time `gorm:"column:at;not null"`
	Fields    string    `gorm:"column:fields;not null"`
	Version   uint64    `gorm:"column:version;not null"`
}

func (eventModel) TableName() string { return "content_events" }

// SQLStore keeps events in a SQLite database via gorm. The schema is owned by
// the goose migrations embedded in this package.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the SQLite file at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errs.NewDB("events.OpenSQLite", "open database", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}
	return NewSQLStore(db), nil
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errs.NewDB("events.RunMigrations", "underlying sql.DB", err)
	}
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errs.NewDB("events.RunMigrations", "set dialect", err)
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return errs.NewDB("events.RunMigrations", "apply migrations", err)
	}
	return nil
}

// Ping checks the connection; used by health checks.
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) Append(ctx context.Context, ev ...Event) error {
	if len(ev) == 0 {
		return nil
	}
	rows := make([]eventModel, 0, len(ev))
	for _, e := range ev {
		fields := e.Fields
		if fields == nil {
			fields = []string{}
		}
		b, err := json.Marshal(fields)
		if err != nil {
			return errs.NewDB("events.Append", "marshal fields", err)
		}
		at := e.At
		if at.IsZero() {
			at = time.Now().UTC()
		}
		rows = append(rows, eventModel{
			EventID:   e.ID,
			HotelID:   e.HotelID,
			SessionID: e.SessionID,
			Type:      e.Type,
			At:        at,
			Fields:    string(b),
			Version:   e.Version,
		})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return errs.NewDB("events.Append", "insert events", err)
	}
	return nil
}

func (s *SQLStore) ListByHotel(ctx context.Context, hotelID int64) ([]StoredEvent, error) {
	var rows []eventModel
	if err := s.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, errs.NewDB("events.ListByHotel", "query events", err)
	}
	return toStored(rows)
}

// List returns the newest limit events, newest first. limit <= 0 means all.
func (s *SQLStore) List(ctx context.Context, limit int) ([]StoredEvent, error) {
	q := s.db.WithContext(ctx).Order("seq DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []eventModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, errs.NewDB("events.List", "query events", err)
	}
	return toStored(rows)
}

func (s *SQLStore) Replay(ctx context.Context, hotelID int64) (*HotelState, error) {
	evs, err := s.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	return Replay(hotelID, evs), nil
}

func toStored(rows []eventModel) ([]StoredEvent, error) {
	out := make([]StoredEvent, 0, len(rows))
	for _, m := range rows {
		var fields []string
		if err := json.Unmarshal([]byte(m.Fields), &fields); err != nil {
			return nil, errs.NewDB("events.toStored", "decode fields", err)
		}
		if len(fields) == 0 {
			fields = nil
		}
		out = append(out, StoredEvent{
			Seq: m.Seq,
			Event: Event{
				ID:        m.EventID,
				Type:      m.Type,
				HotelID:   m.HotelID,
				SessionID: m.SessionID,
				At:        m.At,
				Fields:    fields,
				Version:   m.Version,
			},
		})
	}
	return out, nil
}
