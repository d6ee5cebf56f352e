package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wdm0006/datasweeper/internal/pkg/pkgerror"
	"github.com/wdm0006/datasweeper/internal/pkg/pkguid"
	"github.com/wdm0006/datasweeper/internal/session"
	"github.com/wdm0006/datasweeper/pkg/chart"
	"github.com/wdm0006/datasweeper/pkg/export"
	"github.com/wdm0006/datasweeper/pkg/format"
	"github.com/wdm0006/datasweeper/pkg/profile"
	"github.com/wdm0006/datasweeper/pkg/table"
	"github.com/wdm0006/datasweeper/pkg/transform/dedupe"
	"github.com/wdm0006/datasweeper/pkg/transform/impute"
)

// DefaultPreviewRows is how many rows a preview shows unless asked otherwise.
const DefaultPreviewRows = 5

type Store interface {
	Create(ctx context.Context, sess session.Session) error
	Update(ctx context.Context, id string, fn func(*session.Session) error) error
	Get(ctx context.Context, id string) (session.Session, error)
	Delete(ctx context.Context, id string) error
	Len() int
}

type Metrics interface {
	FileProcessed(format, result string)
	Cleaned(operation string, changes int)
	Converted(format, result string)
	SessionsActive(n int)
}

type Dependency struct {
	Store       Store
	ID          pkguid.StringID
	Metrics     Metrics
	Parse       ParseOptions
	PreviewRows int
	// TopK bounds the frequent text values listed in previews.
	TopK int
}

type Usecase struct {
	store       Store
	id          pkguid.StringID
	metrics     Metrics
	parse       ParseOptions
	previewRows int
	topK        int
}

func New(dep Dependency) *Usecase {
	m := dep.Metrics
	if m == nil {
		m = noopMetrics{}
	}
	rows := dep.PreviewRows
	if rows <= 0 {
		rows = DefaultPreviewRows
	}
	return &Usecase{
		store:       dep.Store,
		id:          dep.ID,
		metrics:     m,
		parse:       dep.Parse,
		previewRows: rows,
		topK:        dep.TopK,
	}
}

type noopMetrics struct{}

func (noopMetrics) FileProcessed(string, string) {}
func (noopMetrics) Cleaned(string, int)          {}
func (noopMetrics) Converted(string, string)     {}
func (noopMetrics) SessionsActive(int)           {}

// Upload ingests files one after another in the given order. Every file
// gets its own result; a rejected or unreadable file never stops the rest.
func (u *Usecase) Upload(ctx context.Context, files []UploadedFile) ([]FileResult, error) {
	if u.store == nil || u.id == nil {
		return nil, pkgerror.NewServer(errors.New("missing dependency"))
	}
	if len(files) == 0 {
		return nil, pkgerror.NewInvalidInput(errors.New("no files uploaded"))
	}

	out := make([]FileResult, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, pkgerror.NewServer(err)
		}
		out = append(out, u.ingest(ctx, f))
	}
	u.metrics.SessionsActive(u.store.Len())
	return out, nil
}

func (u *Usecase) ingest(ctx context.Context, f UploadedFile) FileResult {
	if f.Size <= 0 {
		f.Size = int64(len(f.Content))
	}
	res := FileResult{
		Info:     Info{Name: f.Name, SizeKB: sizeKB(f.Size), Format: format.Detect(f.Name).String()},
		Messages: []Message{infoMessage(f.Name, f.Size)},
	}

	ft, err := format.DetectStrict(f.Name)
	if err != nil {
		slog.WarnContext(ctx, "unsupported file skipped", "file", f.Name, "error", err)
		u.metrics.FileProcessed(ft.String(), "unsupported")
		return res.fail(mapErr(err))
	}

	sess := session.Session{
		ID:     u.id.Generate(),
		Name:   f.Name,
		Size:   f.Size,
		Format: ft,
		State:  session.StateUploaded,
	}
	if err := u.store.Create(ctx, sess); err != nil {
		return res.fail(pkgerror.NewServer(err))
	}

	t, perr := parse(ft, f.Content, u.parse)
	err = u.store.Update(ctx, sess.ID, func(s *session.Session) error {
		if perr != nil {
			s.Err = perr.Error()
			if err := s.Apply(session.EventParseFail); err != nil {
				return err
			}
		} else {
			s.Table = t
			if err := s.Apply(session.EventParse); err != nil {
				return err
			}
		}
		res.Info = infoOf(*s)
		return nil
	})
	if err != nil {
		return res.fail(mapErr(err))
	}

	if perr != nil {
		slog.WarnContext(ctx, "file failed to parse", "session_id", sess.ID, "file", f.Name, "error", perr)
		u.metrics.FileProcessed(ft.String(), "failed")
		return res.fail(mapErr(perr))
	}

	slog.InfoContext(ctx, "file parsed", "session_id", sess.ID, "file", f.Name, "rows", t.Rows(), "columns", t.Cols())
	u.metrics.FileProcessed(ft.String(), "parsed")
	res.Messages = append(res.Messages, successMessage("%s processed: %d rows, %d columns", f.Name, t.Rows(), t.Cols()))
	return res
}

func (r FileResult) fail(err error) FileResult {
	r.Err = err
	r.Messages = append(r.Messages, errorMessage(err))
	return r
}

// Preview returns the first rows of a session's table; rows <= 0 uses the
// configured default. A failed session previews as info only.
func (u *Usecase) Preview(ctx context.Context, id string, rows int) (Preview, error) {
	sess, err := u.store.Get(ctx, id)
	if err != nil {
		return Preview{}, mapErr(err)
	}
	if rows <= 0 {
		rows = u.previewRows
	}

	p := Preview{Info: infoOf(sess), Columns: []Column{}, Rows: [][]any{}}
	if sess.Table == nil {
		return p, nil
	}
	for _, cs := range sess.Table.Schema().Columns {
		p.Columns = append(p.Columns, Column{Name: cs.Name, Kind: cs.Type})
	}
	p.Rows = previewRows(sess.Table, rows)
	prof := profile.Of(sess.Table, u.topK)
	p.Profile = &prof
	return p, nil
}

// Clean runs steps against a copy of the session table and swaps it in on
// success, so a table handed out earlier is never modified.
func (u *Usecase) Clean(ctx context.Context, id string, steps ...table.Transform) (CleanResult, error) {
	var res CleanResult
	err := u.store.Update(ctx, id, func(s *session.Session) error {
		if _, err := s.State.Next(session.EventClean); err != nil {
			return err
		}
		p := table.NewPipeline()
		for _, st := range steps {
			p.Add(st)
		}
		slog.DebugContext(ctx, "cleaning session", "session_id", id, "steps", p.Steps())
		out, err := p.Run(ctx, s.Table.Clone())
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			return pkgerror.NewInvalidInput(err)
		}
		s.Table = out
		if err := s.Apply(session.EventClean); err != nil {
			return err
		}
		res.Info = infoOf(*s)
		return nil
	})
	if err != nil {
		return CleanResult{}, mapErr(err)
	}

	res.Steps = make([]StepResult, 0, len(steps))
	for _, st := range steps {
		n := 0
		if r, ok := st.(table.Reporter); ok {
			n = r.Changes()
		}
		res.Steps = append(res.Steps, StepResult{Name: st.Name(), Changes: n})
		res.Messages = append(res.Messages, cleanedMessage(st.Name(), n))
		u.metrics.Cleaned(st.Name(), n)
	}
	slog.InfoContext(ctx, "session cleaned", "session_id", id, "steps", res.Steps)
	return res, nil
}

func cleanedMessage(step string, n int) Message {
	switch step {
	case "remove_duplicates":
		return successMessage("Duplicates removed! (%d rows)", n)
	case "fill_missing":
		return successMessage("Missing values have been filled! (%d cells)", n)
	default:
		return successMessage("%s applied (%d changes)", step, n)
	}
}

func (u *Usecase) RemoveDuplicates(ctx context.Context, id string) (CleanResult, error) {
	return u.Clean(ctx, id, &dedupe.RemoveDuplicates{})
}

// FillMissing fills every numeric column; value is only used by the
// constant strategy.
func (u *Usecase) FillMissing(ctx context.Context, id string, strategy impute.Strategy, value float64) (CleanResult, error) {
	return u.Clean(ctx, id, &impute.FillMissing{Strategy: strategy, Value: value})
}

// Visualize builds the chart of the first two numeric columns. Fewer than
// two numeric columns is not an error: the result carries a warning and no
// chart, and the session state is left alone.
func (u *Usecase) Visualize(ctx context.Context, id string) (VisualizeResult, error) {
	res, _, err := u.visualize(ctx, id)
	return res, err
}

// ChartSVG renders the chart as SVG. Unlike Visualize, a table without two
// numeric columns is reported as invalid input.
func (u *Usecase) ChartSVG(ctx context.Context, id string) ([]byte, error) {
	res, warn, err := u.visualize(ctx, id)
	if err != nil {
		return nil, err
	}
	if warn != nil {
		return nil, pkgerror.NewInvalidInput(warn)
	}
	var buf bytes.Buffer
	if err := chart.RenderSVG(&buf, *res.Chart); err != nil {
		return nil, pkgerror.NewServer(err)
	}
	return buf.Bytes(), nil
}

func (u *Usecase) visualize(ctx context.Context, id string) (VisualizeResult, error, error) {
	var (
		res  VisualizeResult
		warn error
	)
	err := u.store.Update(ctx, id, func(s *session.Session) error {
		if !s.State.Parsed() {
			return fmt.Errorf("%w: %s has no table", session.ErrInvalidTransition, s.State)
		}
		c, err := chart.Build(s.Table)
		switch {
		case errors.Is(err, chart.ErrInsufficientNumeric):
			warn = err
		case err != nil:
			return err
		default:
			if err := s.Apply(session.EventVisualize); err != nil {
				return err
			}
			res.Chart = &c
		}
		res.Info = infoOf(*s)
		return nil
	})
	if err != nil {
		return VisualizeResult{}, nil, mapErr(err)
	}
	if warn != nil {
		res.Messages = []Message{warningMessage(warn)}
	}
	return res, warn, nil
}

// Convert encodes the session table in target and keeps the artifact for
// download. A failed conversion leaves the session as it was.
func (u *Usecase) Convert(ctx context.Context, id string, target format.Format) (ConvertResult, error) {
	var res ConvertResult
	err := u.store.Update(ctx, id, func(s *session.Session) error {
		if _, err := s.State.Next(session.EventConvert); err != nil {
			return err
		}
		art, err := export.Encode(s.Table, s.Name, target)
		if err != nil {
			return err
		}
		if err := s.Apply(session.EventConvert); err != nil {
			return err
		}
		s.Artifact = &art
		res = ConvertResult{
			Info:     infoOf(*s),
			Filename: art.Filename,
			MimeType: art.MimeType,
			Size:     art.Size(),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, export.ErrEncode) {
			slog.WarnContext(ctx, "conversion failed", "session_id", id, "target", target.String(), "error", err)
			u.metrics.Converted(target.String(), "failed")
		}
		return ConvertResult{}, mapErr(err)
	}

	u.metrics.Converted(target.String(), "ok")
	res.Messages = []Message{successMessage("%s converted to %s", res.Info.Name, res.Filename)}
	return res, nil
}

// Download returns the artifact of the last successful conversion.
func (u *Usecase) Download(ctx context.Context, id string) (export.Artifact, error) {
	var art export.Artifact
	err := u.store.Update(ctx, id, func(s *session.Session) error {
		if s.Artifact == nil {
			return fmt.Errorf("%w: %s has no artifact", session.ErrInvalidTransition, s.State)
		}
		if err := s.Apply(session.EventDownload); err != nil {
			return err
		}
		art = *s.Artifact
		return nil
	})
	if err != nil {
		return export.Artifact{}, mapErr(err)
	}
	return art, nil
}

func (u *Usecase) Delete(ctx context.Context, id string) error {
	if err := u.store.Delete(ctx, id); err != nil {
		return mapErr(err)
	}
	u.metrics.SessionsActive(u.store.Len())
	return nil
}

func mapErr(err error) error {
	var perr *pkgerror.Error
	switch {
	case errors.As(err, &perr):
		return perr
	case errors.Is(err, session.ErrNotFound):
		return pkgerror.NewNotFound(err)
	case errors.Is(err, session.ErrInvalidTransition):
		return pkgerror.NewConflict(err)
	case errors.Is(err, format.ErrUnsupported):
		return pkgerror.NewUnsupportedMedia(err)
	case errors.Is(err, table.ErrParse),
		errors.Is(err, export.ErrEncode),
		errors.Is(err, chart.ErrInsufficientNumeric):
		return pkgerror.NewInvalidInput(err)
	default:
		return pkgerror.NewServer(err)
	}
}
