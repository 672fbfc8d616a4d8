// Row operations for the time-bank tables. Writes are upserts keyed by id so
// the runtime can persist the same entity after every mutation.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hourbank-network/hourbank/internal/domain"
)

// ─── User Operations ────────────────────────────────────────────────────────

// UpsertUser inserts or updates a user row.
func (db *DB) UpsertUser(u domain.User) error {
	skills, err := json.Marshal(u.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	_, err = db.db.Exec(`
		INSERT INTO users (id, time_balance, reputation, skills_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			time_balance = excluded.time_balance,
			reputation   = excluded.reputation,
			skills_json  = excluded.skills_json
	`, u.ID, u.TimeBalance, u.Reputation, string(skills))
	return err
}

// GetUser retrieves a user row. The bool reports whether the row exists.
func (db *DB) GetUser(id domain.UserID) (domain.User, bool, error) {
	var u domain.User
	var skillsJSON string
	err := db.db.QueryRow(`
		SELECT id, time_balance, reputation, skills_json FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.TimeBalance, &u.Reputation, &skillsJSON)
	if err == sql.ErrNoRows {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	if err := json.Unmarshal([]byte(skillsJSON), &u.Skills); err != nil {
		return domain.User{}, false, fmt.Errorf("unmarshal skills: %w", err)
	}
	return u, true, nil
}

// ListUsers returns all user rows.
func (db *DB) ListUsers() ([]domain.User, error) {
	rows, err := db.db.Query(`SELECT id, time_balance, reputation, skills_json FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var u domain.User
		var skillsJSON string
		if err := rows.Scan(&u.ID, &u.TimeBalance, &u.Reputation, &skillsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(skillsJSON), &u.Skills); err != nil {
			return nil, fmt.Errorf("unmarshal skills for user %d: %w", u.ID, err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// ─── Service Operations ─────────────────────────────────────────────────────

// UpsertService inserts or updates a service row.
func (db *DB) UpsertService(s domain.Service) error {
	_, err := db.db.Exec(`
		INSERT INTO services (id, provider, seeker, duration, description, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seeker = excluded.seeker,
			status = excluded.status
	`, s.ID, s.Provider, s.Seeker, s.Duration, s.Description, s.Status)
	return err
}

// GetService retrieves a service row.
func (db *DB) GetService(id domain.ServiceID) (domain.Service, bool, error) {
	var s domain.Service
	err := db.db.QueryRow(`
		SELECT id, provider, seeker, duration, description, status FROM services WHERE id = ?
	`, id).Scan(&s.ID, &s.Provider, &s.Seeker, &s.Duration, &s.Description, &s.Status)
	if err == sql.ErrNoRows {
		return domain.Service{}, false, nil
	}
	return s, err == nil, err
}

// ListServices returns all service rows.
func (db *DB) ListServices() ([]domain.Service, error) {
	rows, err := db.db.Query(`SELECT id, provider, seeker, duration, description, status FROM services ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Provider, &s.Seeker, &s.Duration, &s.Description, &s.Status); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ─── Project Operations ─────────────────────────────────────────────────────

// UpsertProject inserts or updates a project row.
func (db *DB) UpsertProject(p domain.Project) error {
	skills, err := json.Marshal(p.RequiredSkills)
	if err != nil {
		return fmt.Errorf("marshal required skills: %w", err)
	}
	_, err = db.db.Exec(`
		INSERT INTO projects (id, name, description, req_skills_json, total_hours, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status
	`, p.ID, p.Name, p.Description, string(skills), p.TotalHours, p.Status)
	return err
}

// GetProject retrieves a project row.
func (db *DB) GetProject(id domain.ProjectID) (domain.Project, bool, error) {
	var p domain.Project
	var skillsJSON string
	err := db.db.QueryRow(`
		SELECT id, name, description, req_skills_json, total_hours, status FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Description, &skillsJSON, &p.TotalHours, &p.Status)
	if err == sql.ErrNoRows {
		return domain.Project{}, false, nil
	}
	if err != nil {
		return domain.Project{}, false, err
	}
	if err := json.Unmarshal([]byte(skillsJSON), &p.RequiredSkills); err != nil {
		return domain.Project{}, false, fmt.Errorf("unmarshal required skills: %w", err)
	}
	return p, true, nil
}

// ListProjects returns all project rows.
func (db *DB) ListProjects() ([]domain.Project, error) {
	rows, err := db.db.Query(`SELECT id, name, description, req_skills_json, total_hours, status FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		var p domain.Project
		var skillsJSON string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &skillsJSON, &p.TotalHours, &p.Status); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(skillsJSON), &p.RequiredSkills); err != nil {
			return nil, fmt.Errorf("unmarshal required skills for project %d: %w", p.ID, err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ─── Contribution Operations ────────────────────────────────────────────────

// UpsertContribution writes a user's running total on a project.
func (db *DB) UpsertContribution(c domain.Contribution) error {
	_, err := db.db.Exec(`
		INSERT INTO contributions (project_id, user_id, hours)
		VALUES (?, ?, ?)
		ON CONFLICT(project_id, user_id) DO UPDATE SET
			hours = excluded.hours
	`, c.Project, c.User, c.Hours)
	return err
}

// ListContributions returns all contribution rows.
func (db *DB) ListContributions() ([]domain.Contribution, error) {
	rows, err := db.db.Query(`SELECT project_id, user_id, hours FROM contributions ORDER BY project_id, user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(&c.Project, &c.User, &c.Hours); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// ListProjectContributions returns the contribution rows for one project.
func (db *DB) ListProjectContributions(projectID domain.ProjectID) ([]domain.Contribution, error) {
	rows, err := db.db.Query(`
		SELECT project_id, user_id, hours FROM contributions WHERE project_id = ? ORDER BY user_id
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(&c.Project, &c.User, &c.Hours); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// ─── Counter Operations ─────────────────────────────────────────────────────

// Counter names for id allocation.
const (
	CounterUsers    = "users"
	CounterServices = "services"
	CounterProjects = "projects"
)

// SetCounter writes a counter's value.
func (db *DB) SetCounter(name string, value int64) error {
	_, err := db.db.Exec(`
		INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, name, value)
	return err
}

// GetCounter reads a counter's value; missing counters read as zero.
func (db *DB) GetCounter(name string) (int64, error) {
	var v int64
	err := db.db.QueryRow(`SELECT value FROM counters WHERE name = ?`, name).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return v, err
}

// ─── Journal Operations ─────────────────────────────────────────────────────

// AppendJournal appends one operation record.
func (db *DB) AppendJournal(e domain.JournalEntry) error {
	_, err := db.db.Exec(`
		INSERT INTO journal (id, op, caller, entity, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Op, e.Caller, e.Entity, e.Amount, e.Timestamp.UTC().Format(time.RFC3339))
	return err
}

// ListJournal returns the most recent journal entries, newest first.
func (db *DB) ListJournal(limit int) ([]domain.JournalEntry, error) {
	rows, err := db.db.Query(`
		SELECT id, op, caller, entity, amount, created_at
		FROM journal ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.Op, &e.Caller, &e.Entity, &e.Amount, &ts); err != nil {
			return nil, err
		}
		e.Timestamp, _ = time.Parse(time.RFC3339, ts)
		result = append(result, e)
	}
	return result, rows.Err()
}

// JournalCount returns the number of journal entries.
func (db *DB) JournalCount() (int64, error) {
	var n int64
	err := db.db.QueryRow(`SELECT COUNT(*) FROM journal`).Scan(&n)
	return n, err
}
