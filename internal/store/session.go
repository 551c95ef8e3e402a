package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	sq "github.com/Masterminds/squirrel"
)

// chunkSize bounds the number of IDs in a single IN clause or multi-row
// insert so statements stay under the server's packet limit.
const chunkSize = 5000

// Session runs the per-group reads and writes for one worker on a pinned
// connection. Not safe for concurrent use.
type Session struct {
	conn   *sql.Conn
	logger *slog.Logger
}

// GroupNames returns the canonical name and recorded aliases for a group.
// A group missing from the canonical table is reported as ErrNotFound.
func (s *Session) GroupNames(ctx context.Context, groupID int64) (string, []string, error) {
	var name string
	err := s.conn.QueryRowContext(ctx, "SELECT name FROM school WHERE id = ?", groupID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%w: read group %d: %w", ErrUnavailable, groupID, err)
	}

	rows, err := s.conn.QueryContext(ctx, "SELECT alias_name FROM aliases WHERE inst_master_id = ?", groupID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: read aliases for group %d: %w", ErrUnavailable, groupID, err)
	}
	defer rows.Close()

	var aliases []string
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return "", nil, fmt.Errorf("%w: scan alias: %w", ErrUnavailable, err)
		}
		aliases = append(aliases, alias)
	}
	if err := rows.Err(); err != nil {
		return "", nil, fmt.Errorf("%w: read aliases for group %d: %w", ErrUnavailable, groupID, err)
	}
	return name, aliases, nil
}

// VerifyCandidates filters a candidate set down to the IDs present and marked
// verified in the authoritative table. Large sets are checked in chunks.
func (s *Session) VerifyCandidates(ctx context.Context, candidates map[int64]struct{}) (map[int64]struct{}, error) {
	verified := make(map[int64]struct{}, len(candidates))
	for _, chunk := range chunkIDs(candidates) {
		query, args, err := sq.Select("id").
			From("applicants").
			Where(sq.Eq{"id": chunk}).
			Where(sq.Eq{"is_verified": 1}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build verification query: %w", err)
		}

		rows, err := s.conn.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("%w: verify candidates: %w", ErrUnavailable, err)
		}
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("%w: scan candidate id: %w", ErrUnavailable, err)
			}
			verified[id] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: verify candidates: %w", ErrUnavailable, err)
		}
		rows.Close()
	}
	return verified, nil
}

// WriteMemberships records group membership for each verified candidate.
// Existing rows are left untouched, so re-running a group is safe. Returns
// the number of rows actually inserted.
func (s *Session) WriteMemberships(ctx context.Context, groupID int64, candidates map[int64]struct{}) (int64, error) {
	var written int64
	for _, chunk := range chunkIDs(candidates) {
		builder := sq.Insert("group_members").
			Options("IGNORE").
			Columns("candidateid", "groupid")
		for _, id := range chunk {
			builder = builder.Values(id, groupID)
		}
		query, args, err := builder.ToSql()
		if err != nil {
			return written, fmt.Errorf("build membership insert: %w", err)
		}

		result, err := s.conn.ExecContext(ctx, query, args...)
		if err != nil {
			return written, fmt.Errorf("%w: write memberships for group %d: %w", ErrUnavailable, groupID, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return written, fmt.Errorf("%w: count written memberships: %w", ErrUnavailable, err)
		}
		written += rows
	}
	return written, nil
}

// Close returns the pinned connection to the pool.
func (s *Session) Close() error {
	return s.conn.Close()
}

// chunkIDs flattens a candidate set into sorted fixed-size chunks. Sorting
// keeps statements deterministic for a given set.
func chunkIDs(candidates map[int64]struct{}) [][]int64 {
	if len(candidates) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	chunks := make([][]int64, 0, (len(ids)+chunkSize-1)/chunkSize)
	for start := 0; start < len(ids); start += chunkSize {
		end := min(start+chunkSize, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
