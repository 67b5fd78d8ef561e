package domain

import (
	"io"
	"time"
)

// Attachment is a row of tbl_board_attachment.
// Path is an opaque media storage key, Filename is what the uploader called the file.
type Attachment struct {
	No          AttachmentNo
	BoardNo     BoardNo
	Filename    string
	Path        string
	ContentType string
	Size        int64
	RegDate     time.Time
}

type Attachments = []*Attachment

// PendingFile is an uploaded file that is not stored yet.
type PendingFile struct {
	Filename  string
	SizeBytes int64
	MimeType  string
	Data      io.Reader
}
