package service

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/itchan-dev/scoula/shared/domain"
	"github.com/itchan-dev/scoula/shared/errors"
	"github.com/itchan-dev/scoula/shared/logger"
)

// to mock service in tests
type BoardService interface {
	GetList(ctx context.Context) ([]domain.Board, error)
	Get(ctx context.Context, no domain.BoardNo) (*domain.Board, error)
	Create(ctx context.Context, board *domain.Board, files []*domain.PendingFile) error
	Update(ctx context.Context, board *domain.Board, files []*domain.PendingFile) (bool, error)
	Delete(ctx context.Context, no domain.BoardNo) (bool, error)

	GetAttachment(ctx context.Context, no domain.AttachmentNo) (*domain.Attachment, error)
	OpenAttachment(ctx context.Context, attachment *domain.Attachment) (io.ReadCloser, error)
	DeleteAttachment(ctx context.Context, no domain.AttachmentNo) (bool, error)
}

type BoardStorage interface {
	ListBoards(ctx context.Context) ([]domain.BoardRecord, error)
	GetBoard(ctx context.Context, no domain.BoardNo) (*domain.BoardRecord, error)
	CreateBoard(ctx context.Context, b *domain.BoardRecord) error
	UpdateBoard(ctx context.Context, b *domain.BoardRecord) (int64, error)
	DeleteBoard(ctx context.Context, no domain.BoardNo) (int64, error)

	CreateAttachment(ctx context.Context, a *domain.Attachment) error
	ListAttachments(ctx context.Context, boardNo domain.BoardNo) (domain.Attachments, error)
	GetAttachment(ctx context.Context, no domain.AttachmentNo) (*domain.Attachment, error)
	DeleteAttachment(ctx context.Context, no domain.AttachmentNo) (int64, error)
}

type Board struct {
	storage BoardStorage
	media   MediaStorage
}

func NewBoard(storage BoardStorage, media MediaStorage) BoardService {
	return &Board{storage: storage, media: media}
}

func (b *Board) GetList(ctx context.Context) ([]domain.Board, error) {
	records, err := b.storage.ListBoards(ctx)
	if err != nil {
		return nil, err
	}
	boards := make([]domain.Board, 0, len(records))
	for _, r := range records {
		boards = append(boards, domain.BoardFromRecord(r))
	}
	return boards, nil
}

func (b *Board) Get(ctx context.Context, no domain.BoardNo) (*domain.Board, error) {
	record, err := b.storage.GetBoard(ctx, no)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.NotFound("Post %d not found", no)
	}

	board := domain.BoardFromRecord(*record)
	if board.Attachments, err = b.storage.ListAttachments(ctx, no); err != nil {
		return nil, err
	}
	return &board, nil
}

// Create inserts the post and writes the generated no and timestamps back onto board.
// If an attachment cannot be stored the post is removed again so no half-created post is left behind.
// The removal runs even when ctx was cancelled mid-upload.
func (b *Board) Create(ctx context.Context, board *domain.Board, files []*domain.PendingFile) error {
	record := board.ToRecord()
	if err := b.storage.CreateBoard(ctx, record); err != nil {
		return err
	}
	board.No = record.No
	board.CreatedAt = record.RegDate
	board.UpdatedAt = record.UpdateDate
	board.Attachments = nil

	if err := b.attach(ctx, board, files); err != nil {
		cleanupCtx := context.WithoutCancel(ctx)
		b.discard(cleanupCtx, board.Attachments)
		if _, delErr := b.storage.DeleteBoard(cleanupCtx, board.No); delErr != nil {
			logger.Log.ErrorContext(cleanupCtx, "failed to remove post after attachment failure", "board", board.String(), "error", delErr)
		}
		board.Attachments = nil
		return err
	}
	return nil
}

// Update returns false when no post with board.No exists. New files are only attached
// to a post that was actually updated.
func (b *Board) Update(ctx context.Context, board *domain.Board, files []*domain.PendingFile) (bool, error) {
	record := board.ToRecord()
	affected, err := b.storage.UpdateBoard(ctx, record)
	if err != nil {
		return false, err
	}
	if affected != 1 {
		return false, nil
	}
	board.UpdatedAt = record.UpdateDate

	if err := b.attach(ctx, board, files); err != nil {
		return true, err
	}
	return true, nil
}

// Delete removes the post. Its attachment rows go with it; the stored blobs are
// removed afterwards and failures there are only logged.
func (b *Board) Delete(ctx context.Context, no domain.BoardNo) (bool, error) {
	attachments, err := b.storage.ListAttachments(ctx, no)
	if err != nil {
		return false, err
	}

	affected, err := b.storage.DeleteBoard(ctx, no)
	if err != nil {
		return false, err
	}
	if affected != 1 {
		return false, nil
	}

	b.discard(context.WithoutCancel(ctx), attachments)
	return true, nil
}

func (b *Board) GetAttachment(ctx context.Context, no domain.AttachmentNo) (*domain.Attachment, error) {
	attachment, err := b.storage.GetAttachment(ctx, no)
	if err != nil {
		return nil, err
	}
	if attachment == nil {
		return nil, errors.NotFound("Attachment %d not found", no)
	}
	return attachment, nil
}

func (b *Board) OpenAttachment(ctx context.Context, attachment *domain.Attachment) (io.ReadCloser, error) {
	return b.media.Open(ctx, attachment.Path)
}

func (b *Board) DeleteAttachment(ctx context.Context, no domain.AttachmentNo) (bool, error) {
	attachment, err := b.storage.GetAttachment(ctx, no)
	if err != nil {
		return false, err
	}
	if attachment == nil {
		return false, nil
	}

	affected, err := b.storage.DeleteAttachment(ctx, no)
	if err != nil {
		return false, err
	}
	if affected != 1 {
		return false, nil
	}

	b.discard(context.WithoutCancel(ctx), domain.Attachments{attachment})
	return true, nil
}

// attach stores every file and records it against board, appending to board.Attachments as it goes.
func (b *Board) attach(ctx context.Context, board *domain.Board, files []*domain.PendingFile) error {
	dir := strconv.FormatInt(board.No, 10)
	for _, f := range files {
		path, size, err := b.media.Save(ctx, f.Data, dir, f.Filename)
		if err != nil {
			return fmt.Errorf("failed to store attachment %q: %w", f.Filename, err)
		}

		attachment := &domain.Attachment{
			BoardNo:     board.No,
			Filename:    f.Filename,
			Path:        path,
			ContentType: f.MimeType,
			Size:        size,
		}
		if err := b.storage.CreateAttachment(ctx, attachment); err != nil {
			if delErr := b.media.Delete(context.WithoutCancel(ctx), path); delErr != nil {
				logger.Log.ErrorContext(ctx, "failed to remove orphaned blob", "path", path, "error", delErr)
			}
			return err
		}
		board.Attachments = append(board.Attachments, attachment)
	}
	return nil
}

// discard removes stored blobs best effort.
func (b *Board) discard(ctx context.Context, attachments domain.Attachments) {
	for _, a := range attachments {
		if err := b.media.Delete(ctx, a.Path); err != nil {
			logger.Log.ErrorContext(ctx, "failed to delete attachment blob", "path", a.Path, "error", err)
		}
	}
}
