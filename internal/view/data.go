package view

import "github.com/itchan-dev/scoula/shared/domain"

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common Common
}

// Common holds fields every page can use.
type Common struct {
	Success   string // flash message of the previous request
	Error     string
	CSRFToken string
	Limits    Limits
}

// Limits mirrors the server side form validation so pages can show it.
type Limits struct {
	TitleMaxLen            int
	WriterMaxLen           int
	MaxAttachments         int
	MaxTotalAttachmentSize int64
	AllowedMimeTypes       []string
}

// BoardForm backs both the create and the edit page.
type BoardForm struct {
	No          domain.BoardNo
	Title       string
	Content     string
	Writer      string
	Errors      map[string]string // field name -> message
	Attachments domain.Attachments
}

type ErrorPage struct {
	Status  int
	Message string
}
