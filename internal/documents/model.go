package documents

import "time"

// Document is a stored PDF with its extracted text content.
type Document struct {
	ID          string
	Filename    string
	StoragePath string
	Content     string
	UploadedAt  time.Time
	UserID      string
}
