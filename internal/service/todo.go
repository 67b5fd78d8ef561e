package service

import (
	"context"

	"github.com/itchan-dev/scoula/shared/domain"
	"github.com/itchan-dev/scoula/shared/errors"
)

type TodoService interface {
	GetList(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id domain.TodoId) (*domain.Todo, error)
	Create(ctx context.Context, todo *domain.Todo) error
	Update(ctx context.Context, todo *domain.Todo) (bool, error)
	Toggle(ctx context.Context, id domain.TodoId) (bool, error)
	Delete(ctx context.Context, id domain.TodoId) (bool, error)
}

type TodoStorage interface {
	ListTodos(ctx context.Context) ([]domain.TodoRecord, error)
	GetTodo(ctx context.Context, id domain.TodoId) (*domain.TodoRecord, error)
	CreateTodo(ctx context.Context, t *domain.TodoRecord) error
	UpdateTodo(ctx context.Context, t *domain.TodoRecord) (int64, error)
	ToggleTodo(ctx context.Context, id domain.TodoId) (int64, error)
	DeleteTodo(ctx context.Context, id domain.TodoId) (int64, error)
}

type Todo struct {
	storage TodoStorage
}

func NewTodo(storage TodoStorage) TodoService {
	return &Todo{storage: storage}
}

func (t *Todo) GetList(ctx context.Context) ([]domain.Todo, error) {
	records, err := t.storage.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	todos := make([]domain.Todo, 0, len(records))
	for _, r := range records {
		todos = append(todos, domain.TodoFromRecord(r))
	}
	return todos, nil
}

func (t *Todo) Get(ctx context.Context, id domain.TodoId) (*domain.Todo, error) {
	record, err := t.storage.GetTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.NotFound("Todo %d not found", id)
	}
	todo := domain.TodoFromRecord(*record)
	return &todo, nil
}

func (t *Todo) Create(ctx context.Context, todo *domain.Todo) error {
	record := todo.ToRecord()
	if err := t.storage.CreateTodo(ctx, record); err != nil {
		return err
	}
	*todo = domain.TodoFromRecord(*record)
	return nil
}

func (t *Todo) Update(ctx context.Context, todo *domain.Todo) (bool, error) {
	affected, err := t.storage.UpdateTodo(ctx, todo.ToRecord())
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (t *Todo) Toggle(ctx context.Context, id domain.TodoId) (bool, error) {
	affected, err := t.storage.ToggleTodo(ctx, id)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (t *Todo) Delete(ctx context.Context, id domain.TodoId) (bool, error) {
	affected, err := t.storage.DeleteTodo(ctx, id)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
