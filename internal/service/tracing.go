package service

import (
	"context"
	"io"

	"github.com/itchan-dev/scoula/shared/domain"
	"github.com/itchan-dev/scoula/shared/logger"
)

type tracedBoard struct {
	next BoardService
}

// WithTracing logs every call to next through logger.Trace.
func WithTracing(next BoardService) BoardService {
	return &tracedBoard{next: next}
}

func (t *tracedBoard) GetList(ctx context.Context) ([]domain.Board, error) {
	return logger.Trace(ctx, "BoardService.GetList", func() ([]domain.Board, error) {
		return t.next.GetList(ctx)
	})
}

func (t *tracedBoard) Get(ctx context.Context, no domain.BoardNo) (*domain.Board, error) {
	return logger.Trace(ctx, "BoardService.Get", func() (*domain.Board, error) {
		return t.next.Get(ctx, no)
	}, "no", no)
}

func (t *tracedBoard) Create(ctx context.Context, board *domain.Board, files []*domain.PendingFile) error {
	return logger.TraceErr(ctx, "BoardService.Create", func() error {
		return t.next.Create(ctx, board, files)
	}, "title", board.Title, "files", len(files))
}

func (t *tracedBoard) Update(ctx context.Context, board *domain.Board, files []*domain.PendingFile) (bool, error) {
	return logger.Trace(ctx, "BoardService.Update", func() (bool, error) {
		return t.next.Update(ctx, board, files)
	}, "no", board.No, "files", len(files))
}

func (t *tracedBoard) Delete(ctx context.Context, no domain.BoardNo) (bool, error) {
	return logger.Trace(ctx, "BoardService.Delete", func() (bool, error) {
		return t.next.Delete(ctx, no)
	}, "no", no)
}

func (t *tracedBoard) GetAttachment(ctx context.Context, no domain.AttachmentNo) (*domain.Attachment, error) {
	return logger.Trace(ctx, "BoardService.GetAttachment", func() (*domain.Attachment, error) {
		return t.next.GetAttachment(ctx, no)
	}, "no", no)
}

func (t *tracedBoard) OpenAttachment(ctx context.Context, attachment *domain.Attachment) (io.ReadCloser, error) {
	return logger.Trace(ctx, "BoardService.OpenAttachment", func() (io.ReadCloser, error) {
		return t.next.OpenAttachment(ctx, attachment)
	}, "no", attachment.No, "path", attachment.Path)
}

func (t *tracedBoard) DeleteAttachment(ctx context.Context, no domain.AttachmentNo) (bool, error) {
	return logger.Trace(ctx, "BoardService.DeleteAttachment", func() (bool, error) {
		return t.next.DeleteAttachment(ctx, no)
	}, "no", no)
}

type tracedTodo struct {
	next TodoService
}

// WithTodoTracing logs every call to next through logger.Trace.
func WithTodoTracing(next TodoService) TodoService {
	return &tracedTodo{next: next}
}

func (t *tracedTodo) GetList(ctx context.Context) ([]domain.Todo, error) {
	return logger.Trace(ctx, "TodoService.GetList", func() ([]domain.Todo, error) {
		return t.next.GetList(ctx)
	})
}

func (t *tracedTodo) Get(ctx context.Context, id domain.TodoId) (*domain.Todo, error) {
	return logger.Trace(ctx, "TodoService.Get", func() (*domain.Todo, error) {
		return t.next.Get(ctx, id)
	}, "id", id)
}

func (t *tracedTodo) Create(ctx context.Context, todo *domain.Todo) error {
	return logger.TraceErr(ctx, "TodoService.Create", func() error {
		return t.next.Create(ctx, todo)
	}, "title", todo.Title)
}

func (t *tracedTodo) Update(ctx context.Context, todo *domain.Todo) (bool, error) {
	return logger.Trace(ctx, "TodoService.Update", func() (bool, error) {
		return t.next.Update(ctx, todo)
	}, "id", todo.Id)
}

func (t *tracedTodo) Toggle(ctx context.Context, id domain.TodoId) (bool, error) {
	return logger.Trace(ctx, "TodoService.Toggle", func() (bool, error) {
		return t.next.Toggle(ctx, id)
	}, "id", id)
}

func (t *tracedTodo) Delete(ctx context.Context, id domain.TodoId) (bool, error) {
	return logger.Trace(ctx, "TodoService.Delete", func() (bool, error) {
		return t.next.Delete(ctx, id)
	}, "id", id)
}
