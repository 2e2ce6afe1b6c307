package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	UploadDate time.Time `json:"upload_date"`
	UserID     string    `json:"user_id"`
}

// ToResponse converts a Document.
func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:         doc.ID,
		Filename:   doc.Filename,
		Content:    doc.Content,
		UploadDate: doc.UploadedAt,
		UserID:     doc.UserID,
	}
}

// ToResponses converts a slice of documents, never returning nil.
func ToResponses(docs []Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, ToResponse(doc))
	}
	return out
}
