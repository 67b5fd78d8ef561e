package domain

type (
	BoardNo      = int64
	AttachmentNo = int64
	TodoId       = int64
)
