package service

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/itchan-dev/scoula/shared/domain"
)

// MockBoardStorage mocks the BoardStorage interface.
type MockBoardStorage struct {
	listBoardsFunc       func(ctx context.Context) ([]domain.BoardRecord, error)
	getBoardFunc         func(ctx context.Context, no domain.BoardNo) (*domain.BoardRecord, error)
	createBoardFunc      func(ctx context.Context, b *domain.BoardRecord) error
	updateBoardFunc      func(ctx context.Context, b *domain.BoardRecord) (int64, error)
	deleteBoardFunc      func(ctx context.Context, no domain.BoardNo) (int64, error)
	createAttachmentFunc func(ctx context.Context, a *domain.Attachment) error
	listAttachmentsFunc  func(ctx context.Context, boardNo domain.BoardNo) (domain.Attachments, error)
	getAttachmentFunc    func(ctx context.Context, no domain.AttachmentNo) (*domain.Attachment, error)
	deleteAttachmentFunc func(ctx context.Context, no domain.AttachmentNo) (int64, error)
}

func (m *MockBoardStorage) ListBoards(ctx context.Context) ([]domain.BoardRecord, error) {
	if m.listBoardsFunc != nil {
		return m.listBoardsFunc(ctx)
	}
	return []domain.BoardRecord{}, nil
}

func (m *MockBoardStorage) GetBoard(ctx context.Context, no domain.BoardNo) (*domain.BoardRecord, error) {
	if m.getBoardFunc != nil {
		return m.getBoardFunc(ctx, no)
	}
	return nil, nil
}

func (m *MockBoardStorage) CreateBoard(ctx context.Context, b *domain.BoardRecord) error {
	if m.createBoardFunc != nil {
		return m.createBoardFunc(ctx, b)
	}
	return nil
}

func (m *MockBoardStorage) UpdateBoard(ctx context.Context, b *domain.BoardRecord) (int64, error) {
	if m.updateBoardFunc != nil {
		return m.updateBoardFunc(ctx, b)
	}
	return 1, nil
}

func (m *MockBoardStorage) DeleteBoard(ctx context.Context, no domain.BoardNo) (int64, error) {
	if m.deleteBoardFunc != nil {
		return m.deleteBoardFunc(ctx, no)
	}
	return 1, nil
}

func (m *MockBoardStorage) CreateAttachment(ctx context.Context, a *domain.Attachment) error {
	if m.createAttachmentFunc != nil {
		return m.createAttachmentFunc(ctx, a)
	}
	return nil
}

func (m *MockBoardStorage) ListAttachments(ctx context.Context, boardNo domain.BoardNo) (domain.Attachments, error) {
	if m.listAttachmentsFunc != nil {
		return m.listAttachmentsFunc(ctx, boardNo)
	}
	return domain.Attachments{}, nil
}

func (m *MockBoardStorage) GetAttachment(ctx context.Context, no domain.AttachmentNo) (*domain.Attachment, error) {
	if m.getAttachmentFunc != nil {
		return m.getAttachmentFunc(ctx, no)
	}
	return nil, nil
}

func (m *MockBoardStorage) DeleteAttachment(ctx context.Context, no domain.AttachmentNo) (int64, error) {
	if m.deleteAttachmentFunc != nil {
		return m.deleteAttachmentFunc(ctx, no)
	}
	return 1, nil
}

// MockMediaStorage mocks MediaStorage and records what was saved and deleted.
type MockMediaStorage struct {
	saveFunc   func(ctx context.Context, r io.Reader, dir, originalFilename string) (string, int64, error)
	openFunc   func(ctx context.Context, path string) (io.ReadCloser, error)
	deleteFunc func(ctx context.Context, path string) error

	mu          sync.Mutex
	saved       []string
	deleted     []string
	openedPaths []string
}

func (m *MockMediaStorage) Save(ctx context.Context, r io.Reader, dir, originalFilename string) (string, int64, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, r, dir, originalFilename)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	path := dir + "/" + originalFilename
	m.mu.Lock()
	m.saved = append(m.saved, path)
	m.mu.Unlock()
	return path, int64(len(data)), nil
}

func (m *MockMediaStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	m.openedPaths = append(m.openedPaths, path)
	m.mu.Unlock()
	if m.openFunc != nil {
		return m.openFunc(ctx, path)
	}
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (m *MockMediaStorage) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, path)
	m.mu.Unlock()
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, path)
	}
	return nil
}

// MockTodoStorage mocks the TodoStorage interface.
type MockTodoStorage struct {
	listTodosFunc  func(ctx context.Context) ([]domain.TodoRecord, error)
	getTodoFunc    func(ctx context.Context, id domain.TodoId) (*domain.TodoRecord, error)
	createTodoFunc func(ctx context.Context, t *domain.TodoRecord) error
	updateTodoFunc func(ctx context.Context, t *domain.TodoRecord) (int64, error)
	toggleTodoFunc func(ctx context.Context, id domain.TodoId) (int64, error)
	deleteTodoFunc func(ctx context.Context, id domain.TodoId) (int64, error)
}

func (m *MockTodoStorage) ListTodos(ctx context.Context) ([]domain.TodoRecord, error) {
	if m.listTodosFunc != nil {
		return m.listTodosFunc(ctx)
	}
	return []domain.TodoRecord{}, nil
}

func (m *MockTodoStorage) GetTodo(ctx context.Context, id domain.TodoId) (*domain.TodoRecord, error) {
	if m.getTodoFunc != nil {
		return m.getTodoFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTodoStorage) CreateTodo(ctx context.Context, t *domain.TodoRecord) error {
	if m.createTodoFunc != nil {
		return m.createTodoFunc(ctx, t)
	}
	return nil
}

func (m *MockTodoStorage) UpdateTodo(ctx context.Context, t *domain.TodoRecord) (int64, error) {
	if m.updateTodoFunc != nil {
		return m.updateTodoFunc(ctx, t)
	}
	return 1, nil
}

func (m *MockTodoStorage) ToggleTodo(ctx context.Context, id domain.TodoId) (int64, error) {
	if m.toggleTodoFunc != nil {
		return m.toggleTodoFunc(ctx, id)
	}
	return 1, nil
}

func (m *MockTodoStorage) DeleteTodo(ctx context.Context, id domain.TodoId) (int64, error) {
	if m.deleteTodoFunc != nil {
		return m.deleteTodoFunc(ctx, id)
	}
	return 1, nil
}
