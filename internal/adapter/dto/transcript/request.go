package transcript

// CreateTranscriptRequest uploads a raw transcript. Content must already be
// decoded UTF-8 text; file parsing happens upstream.
type CreateTranscriptRequest struct {
	Title    string `json:"title" validate:"max=255"`
	Filename string `json:"filename" validate:"max=255"`
	Content  string `json:"content" validate:"required"`
}

// UpdateTranscriptRequest renames a transcript. Content is immutable.
type UpdateTranscriptRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}
