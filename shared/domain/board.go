package domain

import (
	"time"
)

// BoardRecord is a row of tbl_board.
type BoardRecord struct {
	No         BoardNo
	Title      string
	Content    string
	Writer     string
	RegDate    time.Time
	UpdateDate time.Time
}

// Board is a post as seen by handlers and templates.
type Board struct {
	No          BoardNo
	Title       string
	Content     string
	Writer      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Attachments Attachments
}

func BoardFromRecord(r BoardRecord) Board {
	return Board{
		No:        r.No,
		Title:     r.Title,
		Content:   r.Content,
		Writer:    r.Writer,
		CreatedAt: r.RegDate,
		UpdatedAt: r.UpdateDate,
	}
}

func (b *Board) ToRecord() *BoardRecord {
	return &BoardRecord{
		No:         b.No,
		Title:      b.Title,
		Content:    b.Content,
		Writer:     b.Writer,
		RegDate:    b.CreatedAt,
		UpdateDate: b.UpdatedAt,
	}
}
