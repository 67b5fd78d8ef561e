package domain

import (
	"fmt"
	"time"
)

// for debug
func (b *Board) String() string {
	s := fmt.Sprintf("[no:%d, title:%s, writer:%s, created:%s, attachments:[", b.No, b.Title, b.Writer, b.CreatedAt.Format(time.StampMilli))
	for i, a := range b.Attachments {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d:%s", a.No, a.Filename)
	}
	return s + "]]"
}
