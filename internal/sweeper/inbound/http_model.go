package inbound

import (
	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
)

type FileResponse struct {
	Info     usecase.Info      `json:"info"`
	Messages []usecase.Message `json:"messages"`
	Error    string            `json:"error,omitempty"`
}

// UploadResponse lists one entry per uploaded file, in upload order.
type UploadResponse struct {
	Files  []FileResponse `json:"files"`
	failed int
}

func (r UploadResponse) Message() string {
	if r.failed > 0 {
		return "files processed with errors"
	}
	return "files processed"
}

func (r UploadResponse) Meta() map[string]any {
	return map[string]any{
		"total":     len(r.Files),
		"succeeded": len(r.Files) - r.failed,
		"failed":    r.failed,
	}
}

type PreviewResponse struct {
	usecase.Preview
}

type CleanResponse struct {
	usecase.CleanResult
}

func (r CleanResponse) Message() string { return lastMessage(r.Messages, "table cleaned") }

type ChartResponse struct {
	usecase.VisualizeResult
}

func (r ChartResponse) Message() string { return lastMessage(r.Messages, "chart ready") }

type ConvertResponse struct {
	usecase.ConvertResult
}

func (r ConvertResponse) Message() string { return lastMessage(r.Messages, "file converted") }

func lastMessage(msgs []usecase.Message, fallback string) string {
	if len(msgs) == 0 {
		return fallback
	}
	return msgs[len(msgs)-1].Text
}
