package archive

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq" // postgres drivers
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgres struct {
	db *sql.DB
}

// NewPostgres connects to the archive database and makes sure the
// audit table exists.
func NewPostgres(psqlInfo string) (Recorder, error) {
	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, errors.Wrap(err, "Error opening archive database")
	}

	// make sure we have a good connection
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "Error pinging archive database")
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS message_audit (
		id SERIAL PRIMARY KEY,
		message_id BIGINT NOT NULL,
		author_id BIGINT NOT NULL,
		event TEXT NOT NULL,
		body TEXT NOT NULL,
		at BIGINT NOT NULL
	)`)
	if err != nil {
		return nil, errors.Wrap(err, "Error creating audit table")
	}

	return &postgres{db: db}, nil
}

// Record inserts one audit row. Failures are logged and returned
// but never block the message path; callers treat the archive as
// best effort.
func (p *postgres) Record(e Entry) error {
	_, err := psql.Insert("message_audit").
		Columns("message_id", "author_id", "event", "body", "at").
		Values(e.MessageID, e.Author, e.Event, e.Body, e.At).
		RunWith(p.db).Exec()
	if err != nil {
		logrus.Errorf("archive insert failed for message %d: %v", e.MessageID, err)
		return errors.Wrap(err, "Error recording audit entry")
	}
	return nil
}

// Close closes the archive database.
func (p *postgres) Close() {
	p.db.Close()
}
