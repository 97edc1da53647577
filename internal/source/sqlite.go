package source

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sections (
		id INTEGER PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY,
		section_id INTEGER NOT NULL REFERENCES sections(id),
		full_name TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY,
		section_id INTEGER NOT NULL REFERENCES sections(id),
		number INTEGER NOT NULL,
		title TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS competencies (
		id INTEGER PRIMARY KEY,
		session_id INTEGER NOT NULL,
		display_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS abilities (
		id INTEGER PRIMARY KEY,
		competency_id INTEGER NOT NULL,
		display_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS criteria (
		id INTEGER PRIMARY KEY,
		ability_id INTEGER NOT NULL,
		display_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS criterion_values (
		student_id INTEGER NOT NULL,
		criterion_id INTEGER NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (student_id, criterion_id)
	)`,
	`CREATE TABLE IF NOT EXISTS observations (
		student_id INTEGER NOT NULL,
		ability_id INTEGER NOT NULL,
		observation TEXT NOT NULL,
		PRIMARY KEY (student_id, ability_id)
	)`,
}

// OpenSQLite opens the database at dsn and creates the tables.
func OpenSQLite(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables when they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate")
		}
	}
	return nil
}

// SQLiteSource reads snapshots from the relational schema created by Migrate.
// Students keep their stored position order.
type SQLiteSource struct {
	DB *sqlx.DB
}

func (s *SQLiteSource) Load(ctx context.Context, sectionID int64) (models.Snapshot, error) {
	var snap models.Snapshot

	var id int64
	err := s.DB.GetContext(ctx, &id, `SELECT id FROM sections WHERE id = ?`, sectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, errors.Wrapf(ErrSectionNotFound, "section %d", sectionID)
	}
	if err != nil {
		return snap, errors.Wrapf(err, "section %d", sectionID)
	}

	queries := []struct {
		name  string
		dest  interface{}
		query string
	}{
		{"students", &snap.Students, `
			SELECT id, full_name FROM students
			WHERE section_id = ? ORDER BY position, id`},
		{"sessions", &snap.Sessions, `
			SELECT id, number, title FROM sessions
			WHERE section_id = ? ORDER BY number, id`},
		{"competencies", &snap.Competencies, `
			SELECT c.id, c.session_id, c.display_name FROM competencies c
			JOIN sessions s ON s.id = c.session_id
			WHERE s.section_id = ? ORDER BY c.id`},
		{"abilities", &snap.Abilities, `
			SELECT a.id, a.competency_id, a.display_name FROM abilities a
			JOIN competencies c ON c.id = a.competency_id
			JOIN sessions s ON s.id = c.session_id
			WHERE s.section_id = ? ORDER BY a.id`},
		{"criteria", &snap.Criteria, `
			SELECT k.id, k.ability_id, k.display_name FROM criteria k
			JOIN abilities a ON a.id = k.ability_id
			JOIN competencies c ON c.id = a.competency_id
			JOIN sessions s ON s.id = c.session_id
			WHERE s.section_id = ? ORDER BY k.id`},
		{"values", &snap.Values, `
			SELECT v.student_id, v.criterion_id, v.value FROM criterion_values v
			JOIN students st ON st.id = v.student_id
			WHERE st.section_id = ? ORDER BY v.student_id, v.criterion_id`},
		{"observations", &snap.Observations, `
			SELECT o.student_id, o.ability_id, o.observation FROM observations o
			JOIN students st ON st.id = o.student_id
			WHERE st.section_id = ? ORDER BY o.student_id, o.ability_id`},
	}
	for _, q := range queries {
		if err := s.DB.SelectContext(ctx, q.dest, q.query, sectionID); err != nil {
			return models.Snapshot{}, errors.Wrapf(err, "select %s", q.name)
		}
	}
	return snap, nil
}

// Save stores a snapshot under sectionID, replacing students, sessions and
// their values. Rows of other sections are left alone.
func (s *SQLiteSource) Save(ctx context.Context, sectionID int64, snap models.Snapshot) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO sections (id) VALUES (?)`, sectionID); err != nil {
		return errors.Wrap(err, "insert section")
	}
	for i, st := range snap.Students {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO students (id, section_id, full_name, position) VALUES (?, ?, ?, ?)`,
			st.ID, sectionID, st.FullName, i); err != nil {
			return errors.Wrapf(err, "insert student %d", st.ID)
		}
	}
	for _, se := range snap.Sessions {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO sessions (id, section_id, number, title) VALUES (?, ?, ?, ?)`,
			se.ID, sectionID, se.Number, se.Title); err != nil {
			return errors.Wrapf(err, "insert session %d", se.ID)
		}
	}

	inserts := []struct {
		name string
		stmt string
		rows interface{}
	}{
		{"competencies", `INSERT OR REPLACE INTO competencies (id, session_id, display_name) VALUES (:id, :session_id, :display_name)`, snap.Competencies},
		{"abilities", `INSERT OR REPLACE INTO abilities (id, competency_id, display_name) VALUES (:id, :competency_id, :display_name)`, snap.Abilities},
		{"criteria", `INSERT OR REPLACE INTO criteria (id, ability_id, display_name) VALUES (:id, :ability_id, :display_name)`, snap.Criteria},
		{"values", `INSERT OR REPLACE INTO criterion_values (student_id, criterion_id, value) VALUES (:student_id, :criterion_id, :value)`, snap.Values},
		{"observations", `INSERT OR REPLACE INTO observations (student_id, ability_id, observation) VALUES (:student_id, :ability_id, :observation)`, snap.Observations},
	}
	for _, in := range inserts {
		if sliceLen(in.rows) == 0 {
			continue
		}
		if _, err := tx.NamedExecContext(ctx, in.stmt, in.rows); err != nil {
			return errors.Wrapf(err, "insert %s", in.name)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func sliceLen(rows interface{}) int {
	switch v := rows.(type) {
	case []models.Competency:
		return len(v)
	case []models.Ability:
		return len(v)
	case []models.Criterion:
		return len(v)
	case []models.Value:
		return len(v)
	case []models.Observation:
		return len(v)
	}
	return 0
}
