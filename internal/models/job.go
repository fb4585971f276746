package models

import "io"

// ProgressEvent is a single progress update pushed to connected observers.
type ProgressEvent struct {
	Type     string `json:"type"`
	Progress int    `json:"progress"`
}

func NewProgressEvent(percent int) ProgressEvent {
	return ProgressEvent{
		Type:     "progress",
		Progress: percent,
	}
}

// UploadJob tracks the temporary artifacts of one compression request.
// It lives only for the duration of the originating HTTP request and is
// owned exclusively by the handler that created it.
type UploadJob struct {
	InputPath  string
	OutputPath string
}

// TranscodeOutcome is the single terminal result of a supervised
// transcode. Exactly one outcome is produced per job.
type TranscodeOutcome struct {
	Success    bool
	OutputPath string
	Reason     string
}

func SuccessOutcome(outputPath string) TranscodeOutcome {
	return TranscodeOutcome{Success: true, OutputPath: outputPath}
}

func FailureOutcome(reason string) TranscodeOutcome {
	return TranscodeOutcome{Success: false, Reason: reason}
}

// UploadInput carries the validated metadata of an incoming multipart upload.
type UploadInput struct {
	FileName string `json:"filename" validate:"required,lte=255"`
	FileSize int64  `json:"file_size" validate:"required,gt=0"`
}

// StoreObjectInput describes one blob to publish to the durable store.
type StoreObjectInput struct {
	Bucket   string
	Key      string
	MimeType string
	Size     int64
	Body     io.Reader
}
