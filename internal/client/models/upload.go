package models

import "time"

// UploadStatus is the lifecycle state of one file in the upload queue.
type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadUploading UploadStatus = "uploading"
	UploadCompleted UploadStatus = "completed"
	UploadError     UploadStatus = "error"
)

// Progress points of an upload. There is no byte-level progress.
const (
	ProgressQueued     = 0
	ProgressRequesting = 10
	ProgressSending    = 30
	ProgressStored     = 100
)

// UploadTask is one selected file moving through the upload pipeline.
type UploadTask struct {
	ID       string
	Path     string
	Name     string
	MimeType string
	Size     int64
	ModTime  time.Time

	Progress     int
	Status       UploadStatus
	ErrorMessage string

	Metadata UploadMetadata
}

// UploadMetadata is the display-ready description of the selected file.
type UploadMetadata struct {
	Type         string
	Size         string
	LastModified string
}

// Settled reports whether the task has reached a terminal state.
func (t UploadTask) Settled() bool {
	return t.Status == UploadCompleted || t.Status == UploadError
}

// UploadRequest asks the backend for a pre-signed upload URL.
type UploadRequest struct {
	OriginalName string `json:"originalName"`
	FileType     string `json:"fileType"`
	FileSize     int64  `json:"fileSize"`
}

type UploadTicket struct {
	SignedURL string `json:"signedUrl"`
}
