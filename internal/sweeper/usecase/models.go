package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/wdm0006/datasweeper/internal/session"
	"github.com/wdm0006/datasweeper/pkg/chart"
	"github.com/wdm0006/datasweeper/pkg/profile"
	"github.com/wdm0006/datasweeper/pkg/table"
)

// UploadedFile is one file of an upload batch.
type UploadedFile struct {
	Name    string
	Size    int64
	Content []byte
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a user-facing note about a file.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

func infoMessage(name string, size int64) Message {
	return Message{Level: LevelInfo, Text: fmt.Sprintf("File: %s, size: %.2f KB", name, sizeKB(size))}
}

func successMessage(format string, args ...any) Message {
	return Message{Level: LevelSuccess, Text: fmt.Sprintf(format, args...)}
}

func warningMessage(err error) Message {
	return Message{Level: LevelWarning, Text: err.Error()}
}

func errorMessage(err error) Message {
	return Message{Level: LevelError, Text: err.Error()}
}

func sizeKB(size int64) float64 { return float64(size) / 1024 }

// Info describes a session.
type Info struct {
	ID      string        `json:"id,omitempty"`
	Name    string        `json:"name"`
	SizeKB  float64       `json:"size_kb"`
	Format  string        `json:"format"`
	State   session.State `json:"state,omitempty"`
	Rows    int           `json:"rows"`
	Columns int           `json:"columns"`
	Error   string        `json:"error,omitempty"`
}

func infoOf(s session.Session) Info {
	in := Info{
		ID:     s.ID,
		Name:   s.Name,
		SizeKB: sizeKB(s.Size),
		Format: s.Format.String(),
		State:  s.State,
		Error:  s.Err,
	}
	if s.Table != nil {
		in.Rows, in.Columns = s.Table.Rows(), s.Table.Cols()
	}
	return in
}

// FileResult is the outcome of ingesting one uploaded file. Err is set when
// the file was rejected or failed to parse; ID is empty for rejected files.
type FileResult struct {
	Info     Info      `json:"info"`
	Messages []Message `json:"messages"`
	Err      error     `json:"-"`
}

type Column struct {
	Name string     `json:"name"`
	Kind table.Kind `json:"kind"`
}

// Preview is the first rows of a table plus its column profile. Cells are
// float64 for numeric columns, string otherwise, nil when missing.
type Preview struct {
	Info    Info             `json:"info"`
	Columns []Column         `json:"columns"`
	Rows    [][]any          `json:"rows"`
	Profile *profile.Profile `json:"profile,omitempty"`
}

type StepResult struct {
	Name    string `json:"name"`
	Changes int    `json:"changes"`
}

type CleanResult struct {
	Info     Info         `json:"info"`
	Steps    []StepResult `json:"steps"`
	Messages []Message    `json:"messages"`
}

// VisualizeResult carries either a chart or the warning explaining why
// there is none.
type VisualizeResult struct {
	Info     Info         `json:"info"`
	Chart    *chart.Chart `json:"chart,omitempty"`
	Messages []Message    `json:"messages"`
}

type ConvertResult struct {
	Info     Info      `json:"info"`
	Filename string    `json:"filename"`
	MimeType string    `json:"mime_type"`
	Size     int       `json:"size"`
	Messages []Message `json:"messages"`
}

// previewRows renders the first limit rows. Numeric cells become
// json.Number so wide integers reach clients digit for digit; missing
// cells are nil.
func previewRows(t *table.Table, limit int) [][]any {
	recs := t.Records(limit)
	out := make([][]any, len(recs))
	for r, rec := range recs {
		row := make([]any, len(rec))
		for c, v := range rec {
			col := t.Column(c)
			switch {
			case col.IsNull(r):
			case col.Kind() == table.KindNumeric:
				row[c] = json.Number(v)
			default:
				row[c] = v
			}
		}
		out[r] = row
	}
	return out
}
