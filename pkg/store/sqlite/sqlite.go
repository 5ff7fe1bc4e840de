// Package sqlite is a plan repository: named fabric plans with their
// parameters, search target and built topology, stored in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/newtron-network/leafspine/pkg/fabric"
	"github.com/newtron-network/leafspine/pkg/util"
)

// Record is one stored plan. TargetHosts is zero for plans with an
// explicit fabric shape. Topology is nil in ListPlans results.
type Record struct {
	Name        string
	Params      fabric.Params
	TargetHosts int
	Options     fabric.Options
	Topology    *fabric.Topology
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRecord builds a record from a built topology.
func NewRecord(name string, t *fabric.Topology, targetHosts int) Record {
	return Record{
		Name:        name,
		Params:      t.Params,
		TargetHosts: targetHosts,
		Options:     t.Options,
		Topology:    t,
	}
}

// Repository stores plans in SQLite.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (or creates) the database at dbPath and migrates its schema.
// ":memory:" gives a private in-memory database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to :memory: would see a different database.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		name TEXT PRIMARY KEY,
		spines INTEGER NOT NULL,
		leaves INTEGER NOT NULL,
		hosts_per_leaf INTEGER NOT NULL,
		radix INTEGER NOT NULL,
		target_hosts INTEGER NOT NULL DEFAULT 0,
		options JSON NOT NULL,
		topology JSON NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plans_radix ON plans(radix);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// SavePlan inserts or replaces a plan. CreatedAt survives replacement.
func (r *Repository) SavePlan(ctx context.Context, rec Record) error {
	if err := util.ValidateTopologyName(rec.Name); err != nil {
		return err
	}
	if rec.Topology == nil {
		return util.NewValidationError("plan topology is required")
	}

	opts, err := json.Marshal(rec.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}
	topo, err := json.Marshal(rec.Topology)
	if err != nil {
		return fmt.Errorf("failed to marshal topology: %w", err)
	}
	now := r.now().UTC().Format(time.RFC3339Nano)

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO plans (name, spines, leaves, hosts_per_leaf, radix, target_hosts, options, topology, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			spines = excluded.spines,
			leaves = excluded.leaves,
			hosts_per_leaf = excluded.hosts_per_leaf,
			radix = excluded.radix,
			target_hosts = excluded.target_hosts,
			options = excluded.options,
			topology = excluded.topology,
			updated_at = excluded.updated_at
	`, rec.Name, rec.Params.Spines, rec.Params.Leaves, rec.Params.HostsPerLeaf, rec.Params.Radix,
		rec.TargetHosts, string(opts), string(topo), now, now)
	if err != nil {
		return fmt.Errorf("failed to save plan %s: %w", rec.Name, err)
	}

	util.WithTopology(rec.Name).Debug("Saved plan")
	return nil
}

// GetPlan loads a plan including its topology.
func (r *Repository) GetPlan(ctx context.Context, name string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT name, spines, leaves, hosts_per_leaf, radix, target_hosts, options, topology, created_at, updated_at
		FROM plans WHERE name = ?
	`, name)

	var (
		rec                  Record
		opts, topo           []byte
		createdAt, updatedAt string
	)
	err := row.Scan(&rec.Name, &rec.Params.Spines, &rec.Params.Leaves, &rec.Params.HostsPerLeaf,
		&rec.Params.Radix, &rec.TargetHosts, &opts, &topo, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, util.NewNotFoundError("plan", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query plan %s: %w", name, err)
	}

	if err := json.Unmarshal(opts, &rec.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	rec.Topology = &fabric.Topology{}
	if err := json.Unmarshal(topo, rec.Topology); err != nil {
		return nil, fmt.Errorf("failed to unmarshal topology: %w", err)
	}
	if err := parseTimes(&rec, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListPlans returns every plan ordered by name, without topologies.
func (r *Repository) ListPlans(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, spines, leaves, hosts_per_leaf, radix, target_hosts, options, created_at, updated_at
		FROM plans ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec                  Record
			opts                 []byte
			createdAt, updatedAt string
		)
		if err := rows.Scan(&rec.Name, &rec.Params.Spines, &rec.Params.Leaves, &rec.Params.HostsPerLeaf,
			&rec.Params.Radix, &rec.TargetHosts, &opts, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		if err := json.Unmarshal(opts, &rec.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal options for %s: %w", rec.Name, err)
		}
		if err := parseTimes(&rec, createdAt, updatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}
	return out, nil
}

// DeletePlan removes a plan.
func (r *Repository) DeletePlan(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM plans WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete plan %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete plan %s: %w", name, err)
	}
	if n == 0 {
		return util.NewNotFoundError("plan", name)
	}
	return nil
}

func parseTimes(rec *Record, createdAt, updatedAt string) error {
	var err error
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return fmt.Errorf("plan %s: bad created_at: %w", rec.Name, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return fmt.Errorf("plan %s: bad updated_at: %w", rec.Name, err)
	}
	return nil
}
