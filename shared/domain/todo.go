package domain

import "time"

// TodoRecord is a row of the todo table.
type TodoRecord struct {
	Id          TodoId
	Title       string
	Description string
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Todo struct {
	Id          TodoId
	Title       string
	Description string
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func TodoFromRecord(r TodoRecord) Todo {
	return Todo(r)
}

func (t *Todo) ToRecord() *TodoRecord {
	r := TodoRecord(*t)
	return &r
}
