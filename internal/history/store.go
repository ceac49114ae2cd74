// Package history records deployments and pipeline submissions locally so
// operators can list what went out and when.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Store provides persistence for deployment and pipeline job records.
type Store struct {
	db *sql.DB
}

// NewStore creates a store backed by the slipway database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Deployment is one recorded deploy.
type Deployment struct {
	DeployID   string
	CreatedAt  string
	SourceRoot string
	Entrypoint string
	StagedURI  string
	Handle     string
	Packages   int
}

// PipelineJob is one recorded pipeline submission.
type PipelineJob struct {
	JobName    string
	RunID      string
	CreatedAt  string
	ProjectID  string
	Region     string
	RemoteName string
	State      string
}

// RecordDeployment inserts a deployment record.
func (s *Store) RecordDeployment(ctx context.Context, d Deployment) error {
	if d.CreatedAt == "" {
		d.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO deployments(deploy_id, created_at, source_root, entrypoint, staged_uri, handle, packages)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		d.DeployID, d.CreatedAt, d.SourceRoot, d.Entrypoint, d.StagedURI, d.Handle, d.Packages)
	if err != nil {
		return fmt.Errorf("insert deployment: %w", err)
	}
	return nil
}

// RecordPipelineJob inserts a pipeline submission record.
func (s *Store) RecordPipelineJob(ctx context.Context, j PipelineJob) error {
	if j.CreatedAt == "" {
		j.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO pipeline_jobs(job_name, run_id, created_at, project_id, region, remote_name, state)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		j.JobName, j.RunID, j.CreatedAt, j.ProjectID, j.Region, j.RemoteName, j.State)
	if err != nil {
		return fmt.Errorf("insert pipeline job: %w", err)
	}
	return nil
}

// ListDeployments returns deployments newest first, up to limit (0 = all).
func (s *Store) ListDeployments(ctx context.Context, limit int) ([]Deployment, error) {
	query := `SELECT deploy_id, created_at, source_root, entrypoint, staged_uri, handle, packages
		FROM deployments ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Deployment
	for rows.Next() {
		var d Deployment
		if err := rows.Scan(&d.DeployID, &d.CreatedAt, &d.SourceRoot, &d.Entrypoint, &d.StagedURI, &d.Handle, &d.Packages); err != nil {
			return nil, fmt.Errorf("scan deployment: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deployments: %w", err)
	}
	return out, nil
}
