package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/scoula/shared/domain"
)

// boardColumns must stay in the order scanBoard reads them.
const boardColumns = "no, title, content, writer, reg_date, update_date"

func scanBoard(row scanner) (domain.BoardRecord, error) {
	var b domain.BoardRecord
	err := row.Scan(&b.No, &b.Title, &b.Content, &b.Writer, &b.RegDate, &b.UpdateDate)
	return b, err
}

// ListBoards returns every post, newest first.
func (s *Storage) ListBoards(ctx context.Context) ([]domain.BoardRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+boardColumns+` FROM tbl_board ORDER BY no DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards: %w", err)
	}
	defer rows.Close()

	boards := []domain.BoardRecord{}
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board row: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return boards, nil
}

// GetBoard returns nil, nil when there is no such post.
func (s *Storage) GetBoard(ctx context.Context, no domain.BoardNo) (*domain.BoardRecord, error) {
	b, err := scanBoard(s.db.QueryRowContext(ctx, s.q(`SELECT `+boardColumns+` FROM tbl_board WHERE no = $1`), no))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get board %d: %w", no, err)
	}
	return &b, nil
}

// CreateBoard inserts b and writes the generated no and timestamps back onto it.
func (s *Storage) CreateBoard(ctx context.Context, b *domain.BoardRecord) error {
	ts := now()
	err := s.db.QueryRowContext(ctx, s.q(`
	INSERT INTO tbl_board(title, content, writer, reg_date, update_date)
	VALUES($1, $2, $3, $4, $5)
	RETURNING no`),
		b.Title, b.Content, b.Writer, ts, ts).Scan(&b.No)
	if err != nil {
		return fmt.Errorf("failed to insert board: %w", err)
	}
	b.RegDate = ts
	b.UpdateDate = ts
	return nil
}

// UpdateBoard replaces title, content and writer. no and reg_date are never touched.
func (s *Storage) UpdateBoard(ctx context.Context, b *domain.BoardRecord) (int64, error) {
	ts := now()
	result, err := s.db.ExecContext(ctx, s.q(`
	UPDATE tbl_board SET
		title = $1,
		content = $2,
		writer = $3,
		update_date = $4
	WHERE no = $5`),
		b.Title, b.Content, b.Writer, ts, b.No)
	if err != nil {
		return 0, fmt.Errorf("failed to update board %d: %w", b.No, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 1 {
		b.UpdateDate = ts
	}
	return affected, nil
}

// DeleteBoard removes a post; its attachment rows go with it (ON DELETE CASCADE).
func (s *Storage) DeleteBoard(ctx context.Context, no domain.BoardNo) (int64, error) {
	result, err := s.db.ExecContext(ctx, s.q(`DELETE FROM tbl_board WHERE no = $1`), no)
	if err != nil {
		return 0, fmt.Errorf("failed to delete board %d: %w", no, err)
	}
	return result.RowsAffected()
}
