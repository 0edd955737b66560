// Package upload is the client side of direct-to-storage uploads.
//
// Files are inspected and validated locally (size, then MIME type), queued as
// pending tasks and handed to an Uploader. For every task the Uploader asks
// the backend for a pre-signed URL and PUTs the raw bytes to object storage.
// Tasks are processed in selection order; a failed task is marked as such and
// the rest of the queue carries on.
package upload
