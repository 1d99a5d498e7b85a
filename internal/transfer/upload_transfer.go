package transfer

type UploadRequest struct {
	DataURL string `json:"dataUrl" validate:"required"`
}

// UploadResult carries the stored public URL, or the original data URL
// unchanged when storage is unavailable.
type UploadResult struct {
	URL    string `json:"url"`
	Stored bool   `json:"stored"`
}
