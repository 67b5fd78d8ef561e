package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/scoula/internal/view"
	"github.com/itchan-dev/scoula/shared/config"
	"github.com/itchan-dev/scoula/shared/domain"
)

// MockBoardService mocks service.BoardService.
type MockBoardService struct {
	getListFunc          func(ctx context.Context) ([]domain.Board, error)
	getFunc              func(ctx context.Context, no domain.BoardNo) (*domain.Board, error)
	createFunc           func(ctx context.Context, board *domain.Board, files []*domain.PendingFile) error
	updateFunc           func(ctx context.Context, board *domain.Board, files []*domain.PendingFile) (bool, error)
	deleteFunc           func(ctx context.Context, no domain.BoardNo) (bool, error)
	getAttachmentFunc    func(ctx context.Context, no domain.AttachmentNo) (*domain.Attachment, error)
	openAttachmentFunc   func(ctx context.Context, attachment *domain.Attachment) (io.ReadCloser, error)
	deleteAttachmentFunc func(ctx context.Context, no domain.AttachmentNo) (bool, error)
}

func (m *MockBoardService) GetList(ctx context.Context) ([]domain.Board, error) {
	if m.getListFunc != nil {
		return m.getListFunc(ctx)
	}
	return []domain.Board{}, nil
}

func (m *MockBoardService) Get(ctx context.Context, no domain.BoardNo) (*domain.Board, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, no)
	}
	return &domain.Board{No: no}, nil
}

func (m *MockBoardService) Create(ctx context.Context, board *domain.Board, files []*domain.PendingFile) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, board, files)
	}
	return nil
}

func (m *MockBoardService) Update(ctx context.Context, board *domain.Board, files []*domain.PendingFile) (bool, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, board, files)
	}
	return true, nil
}

func (m *MockBoardService) Delete(ctx context.Context, no domain.BoardNo) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, no)
	}
	return true, nil
}

func (m *MockBoardService) GetAttachment(ctx context.Context, no domain.AttachmentNo) (*domain.Attachment, error) {
	if m.getAttachmentFunc != nil {
		return m.getAttachmentFunc(ctx, no)
	}
	return &domain.Attachment{No: no}, nil
}

func (m *MockBoardService) OpenAttachment(ctx context.Context, attachment *domain.Attachment) (io.ReadCloser, error) {
	if m.openAttachmentFunc != nil {
		return m.openAttachmentFunc(ctx, attachment)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

func (m *MockBoardService) DeleteAttachment(ctx context.Context, no domain.AttachmentNo) (bool, error) {
	if m.deleteAttachmentFunc != nil {
		return m.deleteAttachmentFunc(ctx, no)
	}
	return true, nil
}

// MockTodoService mocks service.TodoService.
type MockTodoService struct {
	getListFunc func(ctx context.Context) ([]domain.Todo, error)
	getFunc     func(ctx context.Context, id domain.TodoId) (*domain.Todo, error)
	createFunc  func(ctx context.Context, todo *domain.Todo) error
	updateFunc  func(ctx context.Context, todo *domain.Todo) (bool, error)
	toggleFunc  func(ctx context.Context, id domain.TodoId) (bool, error)
	deleteFunc  func(ctx context.Context, id domain.TodoId) (bool, error)
}

func (m *MockTodoService) GetList(ctx context.Context) ([]domain.Todo, error) {
	if m.getListFunc != nil {
		return m.getListFunc(ctx)
	}
	return []domain.Todo{}, nil
}

func (m *MockTodoService) Get(ctx context.Context, id domain.TodoId) (*domain.Todo, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &domain.Todo{Id: id}, nil
}

func (m *MockTodoService) Create(ctx context.Context, todo *domain.Todo) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, todo)
	}
	return nil
}

func (m *MockTodoService) Update(ctx context.Context, todo *domain.Todo) (bool, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, todo)
	}
	return true, nil
}

func (m *MockTodoService) Toggle(ctx context.Context, id domain.TodoId) (bool, error) {
	if m.toggleFunc != nil {
		return m.toggleFunc(ctx, id)
	}
	return true, nil
}

func (m *MockTodoService) Delete(ctx context.Context, id domain.TodoId) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return true, nil
}

// recordingRenderer remembers the last rendered view instead of executing templates.
type recordingRenderer struct {
	name string
	data view.TemplateData
	err  error
}

func (r *recordingRenderer) Render(w io.Writer, name string, data any) error {
	if r.err != nil {
		return r.err
	}
	r.name = name
	r.data = data.(view.TemplateData)
	_, err := fmt.Fprintf(w, "view:%s", name)
	return err
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error { return m.err }

func testConfig() config.Public {
	return config.Public{
		FlashTTL:               time.Minute,
		MaxTotalAttachmentSize: 1 << 20,
		MaxAttachmentsPerPost:  3,
	}
}

func newTestHandler(board *MockBoardService, todo *MockTodoService) (*Handler, *recordingRenderer) {
	if board == nil {
		board = &MockBoardService{}
	}
	if todo == nil {
		todo = &MockTodoService{}
	}
	renderer := &recordingRenderer{}
	return New(board, todo, renderer, mockPinger{}, testConfig()), renderer
}

func formRequest(method, target string, form map[string]string) *http.Request {
	values := url.Values{}
	for k, v := range form {
		values.Set(k, v)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// withURLParam attaches a chi url parameter as the router would.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// flashFrom decodes the flash cookie named name set on the response.
func flashFrom(t *testing.T, rr *httptest.ResponseRecorder, name string) string {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name && c.MaxAge > 0 {
			decoded, err := base64.URLEncoding.DecodeString(c.Value)
			if err != nil {
				t.Fatalf("flash cookie is not base64: %v", err)
			}
			return string(decoded)
		}
	}
	return ""
}
