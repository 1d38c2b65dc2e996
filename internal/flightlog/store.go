// Package flightlog records a flight session to a SQLite database: the raw
// telemetry the panel consumed and the commands the operator issued. The
// recording is raw samples, not rendered trail state, so a session can be
// replayed or mapped offline after the fact.
package flightlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store handles flight log database operations. Write and read connections
// are opened lazily and independently; writes use WAL journaling.
type Store struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a store for the database at dbPath. The schema is initialized
// on first write.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *Store) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateSession starts a new recorded session and returns its identifier.
// config may be a string, []byte or any JSON-serializable value; it is
// stored verbatim for later inspection.
func (s *Store) CreateSession(ctx context.Context, vehicleID string, config any) (sessionID int64, err error) {
	var configData sql.NullString
	switch v := config.(type) {
	case nil:
	case string:
		configData = sql.NullString{String: v, Valid: true}
	case []byte:
		configData = sql.NullString{String: string(v), Valid: true}
	default:
		var p []byte
		if p, err = json.Marshal(config); err != nil {
			return 0, fmt.Errorf("marshaling config: %w", err)
		}
		configData = sql.NullString{String: string(p), Valid: true}
	}

	db, err := s.getWriteDB()
	if err != nil {
		return 0, fmt.Errorf("getting write connection: %w", err)
	}

	result, err := db.ExecContext(ctx, insertSessionSQL, vehicleID, configData)
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}

	if sessionID, err = result.LastInsertId(); err != nil {
		return 0, fmt.Errorf("getting session ID: %w", err)
	}
	return sessionID, nil
}

// Session retrieves a recorded session by ID.
func (s *Store) Session(ctx context.Context, id int64) (*Session, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var sess Session
	var config sql.NullString
	if err = db.QueryRowContext(ctx, selectSessionSQL, id).Scan(&sess.ID, &sess.StartTime, &sess.VehicleID, &config); err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	if config.Valid {
		sess.Config = &config.String
	}

	return &sess, nil
}

// Sessions returns all recorded sessions ordered by start time.
func (s *Store) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sess Session
		var config sql.NullString
		if err = rows.Scan(&sess.ID, &sess.StartTime, &sess.VehicleID, &config); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if config.Valid {
			sess.Config = &config.String
		}
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

// StorePosition records a local-position sample.
func (s *Store) StorePosition(ctx context.Context, sessionID int64, p Position) error {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	if _, err = db.ExecContext(ctx, insertPositionSQL, sessionID, p.Timestamp.UTC(), p.N, p.E, p.D); err != nil {
		return fmt.Errorf("inserting position: %w", err)
	}
	return nil
}

// StoreAttitude records an attitude sample.
func (s *Store) StoreAttitude(ctx context.Context, sessionID int64, a Attitude) error {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	if _, err = db.ExecContext(ctx, insertAttitudeSQL, sessionID, a.Timestamp.UTC(), a.Roll, a.Pitch, a.Yaw); err != nil {
		return fmt.Errorf("inserting attitude: %w", err)
	}
	return nil
}

// StoreEvent records an airborne state change.
func (s *Store) StoreEvent(ctx context.Context, sessionID int64, e Event) error {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	if _, err = db.ExecContext(ctx, insertEventSQL, sessionID, e.Timestamp.UTC(), e.Airborne); err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// StoreCommand records an outbound command. The payload is stored as JSON.
func (s *Store) StoreCommand(ctx context.Context, sessionID int64, topic string, payload any) error {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	var payloadData sql.NullString
	if payload != nil {
		p, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling payload: %w", err)
		}
		payloadData = sql.NullString{String: string(p), Valid: true}
	}

	if _, err = db.ExecContext(ctx, insertCommandSQL, sessionID, time.Now().UTC(), topic, payloadData); err != nil {
		return fmt.Errorf("inserting command: %w", err)
	}
	return nil
}

// ReadPositions returns an iterator over a session's position samples in
// temporal order. The iterator must be closed after use.
func (s *Store) ReadPositions(ctx context.Context, sessionID int64) (*PositionIterator, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectPositionsSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying positions: %w", err)
	}
	return &PositionIterator{rows: rows}, nil
}

// Commands returns a session's issued commands in temporal order.
func (s *Store) Commands(ctx context.Context, sessionID int64) (commands []Command, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectCommandsSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying commands: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var cmd Command
		var payload sql.NullString
		if err = rows.Scan(&cmd.Timestamp, &cmd.Topic, &payload); err != nil {
			return nil, fmt.Errorf("scanning command: %w", err)
		}
		if payload.Valid {
			cmd.Payload = &payload.String
		}
		commands = append(commands, cmd)
	}
	return commands, rows.Err()
}

// Close releases both database connections. It is safe to call multiple
// times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.writeDB != nil {
			s.closeErr = s.writeDB.Close()
		}
		if s.readDB != nil {
			if err := s.readDB.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})
	return s.closeErr
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
