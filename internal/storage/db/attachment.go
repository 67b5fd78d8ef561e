package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/scoula/shared/domain"
)

const attachmentColumns = "no, bno, filename, path, content_type, size, reg_date"

func scanAttachment(row scanner) (domain.Attachment, error) {
	var a domain.Attachment
	err := row.Scan(&a.No, &a.BoardNo, &a.Filename, &a.Path, &a.ContentType, &a.Size, &a.RegDate)
	return a, err
}

// CreateAttachment inserts a and writes the generated no back onto it.
// The owning post must exist, otherwise the foreign key constraint fails.
func (s *Storage) CreateAttachment(ctx context.Context, a *domain.Attachment) error {
	ts := now()
	err := s.db.QueryRowContext(ctx, s.q(`
	INSERT INTO tbl_board_attachment(bno, filename, path, content_type, size, reg_date)
	VALUES($1, $2, $3, $4, $5, $6)
	RETURNING no`),
		a.BoardNo, a.Filename, a.Path, a.ContentType, a.Size, ts).Scan(&a.No)
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	a.RegDate = ts
	return nil
}

// ListAttachments returns the attachments of a post in upload order.
func (s *Storage) ListAttachments(ctx context.Context, boardNo domain.BoardNo) (domain.Attachments, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+attachmentColumns+` FROM tbl_board_attachment WHERE bno = $1 ORDER BY no`), boardNo)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	attachments := domain.Attachments{}
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment row: %w", err)
		}
		attachments = append(attachments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return attachments, nil
}

// GetAttachment returns nil, nil when there is no such attachment.
func (s *Storage) GetAttachment(ctx context.Context, no domain.AttachmentNo) (*domain.Attachment, error) {
	a, err := scanAttachment(s.db.QueryRowContext(ctx, s.q(`SELECT `+attachmentColumns+` FROM tbl_board_attachment WHERE no = $1`), no))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attachment %d: %w", no, err)
	}
	return &a, nil
}

func (s *Storage) DeleteAttachment(ctx context.Context, no domain.AttachmentNo) (int64, error) {
	result, err := s.db.ExecContext(ctx, s.q(`DELETE FROM tbl_board_attachment WHERE no = $1`), no)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attachment %d: %w", no, err)
	}
	return result.RowsAffected()
}
