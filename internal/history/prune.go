package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RetentionPolicy controls history cleanup.
type RetentionPolicy struct {
	KeepLast int
	KeepDays int
}

// PruneResult summarizes a prune operation.
type PruneResult struct {
	Considered int
	Kept       int
	Deleted    int
}

// Prune deletes old deployment and pipeline job records per the retention
// policy. The policy applies to each table independently: records inside
// the keep-last window or newer than the keep-days cutoff survive.
func Prune(ctx context.Context, db *sql.DB, policy RetentionPolicy, dryRun bool) (PruneResult, error) {
	if policy.KeepLast <= 0 && policy.KeepDays <= 0 {
		return PruneResult{}, nil
	}
	cutoff := time.Time{}
	if policy.KeepDays > 0 {
		cutoff = time.Now().UTC().Add(-time.Duration(policy.KeepDays) * 24 * time.Hour)
	}

	var total PruneResult
	for _, table := range []string{"deployments", "pipeline_jobs"} {
		res, err := pruneTable(ctx, db, table, policy, cutoff, dryRun)
		if err != nil {
			return total, err
		}
		total.Considered += res.Considered
		total.Kept += res.Kept
		total.Deleted += res.Deleted
	}
	return total, nil
}

func pruneTable(ctx context.Context, db *sql.DB, table string, policy RetentionPolicy, cutoff time.Time, dryRun bool) (PruneResult, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT rowid, created_at FROM %s ORDER BY created_at DESC`, table))
	if err != nil {
		return PruneResult{}, fmt.Errorf("list %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	type record struct {
		rowid     int64
		createdAt time.Time
		parseErr  error
	}
	var records []record
	for rows.Next() {
		var rowid int64
		var createdAt string
		if err := rows.Scan(&rowid, &createdAt); err != nil {
			return PruneResult{}, fmt.Errorf("scan %s: %w", table, err)
		}
		parsed, parseErr := time.Parse(time.RFC3339, createdAt)
		records = append(records, record{rowid: rowid, createdAt: parsed, parseErr: parseErr})
	}
	if err := rows.Err(); err != nil {
		return PruneResult{}, fmt.Errorf("iterate %s: %w", table, err)
	}

	res := PruneResult{Considered: len(records)}
	for idx, rec := range records {
		keep := false
		if policy.KeepLast > 0 && idx < policy.KeepLast {
			keep = true
		}
		if !keep && policy.KeepDays > 0 {
			if rec.parseErr != nil {
				keep = true
			} else if rec.createdAt.After(cutoff) {
				keep = true
			}
		}
		if keep {
			res.Kept++
			continue
		}
		if dryRun {
			res.Deleted++
			continue
		}
		if _, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE rowid=?`, table), rec.rowid); err != nil {
			return res, fmt.Errorf("delete from %s: %w", table, err)
		}
		res.Deleted++
	}
	return res, nil
}
