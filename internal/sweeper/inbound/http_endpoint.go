package inbound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/wdm0006/datasweeper/internal/pkg/pkgerror"
	"github.com/wdm0006/datasweeper/internal/pkg/pkgrouter"
	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
	"github.com/wdm0006/datasweeper/pkg/format"
	"github.com/wdm0006/datasweeper/pkg/transform/impute"
)

// FormField is the repeated multipart field carrying uploaded files.
const FormField = "files"

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	files, err := extractFiles(r)
	if err != nil {
		return nil, err
	}

	results, err := h.uc.Upload(ctx, files)
	if err != nil {
		return nil, err
	}

	resp := UploadResponse{Files: make([]FileResponse, 0, len(results))}
	for _, res := range results {
		fr := FileResponse{Info: res.Info, Messages: res.Messages}
		if res.Err != nil {
			fr.Error = errorText(res.Err)
			resp.failed++
		}
		resp.Files = append(resp.Files, fr)
	}
	return resp, nil
}

func (h *HTTPEndpoint) Preview(ctx context.Context, r *http.Request) (any, error) {
	rows := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("rows")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, pkgerror.NewInvalidInput(errors.New("invalid rows"))
		}
		rows = n
	}

	p, err := h.uc.Preview(ctx, pkgrouter.GetParam(ctx, "id"), rows)
	if err != nil {
		return nil, err
	}
	return PreviewResponse{Preview: p}, nil
}

func (h *HTTPEndpoint) RemoveDuplicates(ctx context.Context, _ *http.Request) (any, error) {
	res, err := h.uc.RemoveDuplicates(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}
	return CleanResponse{CleanResult: res}, nil
}

func (h *HTTPEndpoint) FillMissing(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()
	strategy, err := impute.ParseStrategy(query.Get("strategy"))
	if err != nil {
		return nil, pkgerror.NewInvalidInput(err)
	}

	var value float64
	raw := strings.TrimSpace(query.Get("value"))
	switch {
	case raw != "":
		value, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, pkgerror.NewInvalidInput(errors.New("invalid value"))
		}
	case strategy == impute.StrategyConstant:
		return nil, pkgerror.NewInvalidInput(errors.New("value is required for the constant strategy"))
	}

	res, err := h.uc.FillMissing(ctx, pkgrouter.GetParam(ctx, "id"), strategy, value)
	if err != nil {
		return nil, err
	}
	return CleanResponse{CleanResult: res}, nil
}

func (h *HTTPEndpoint) Chart(ctx context.Context, _ *http.Request) (any, error) {
	res, err := h.uc.Visualize(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}
	return ChartResponse{VisualizeResult: res}, nil
}

func (h *HTTPEndpoint) ChartSVG(ctx context.Context, _ *http.Request) (any, error) {
	body, err := h.uc.ChartSVG(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}
	return &pkgrouter.Raw{ContentType: "image/svg+xml", Body: body}, nil
}

func (h *HTTPEndpoint) Convert(ctx context.Context, r *http.Request) (any, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("format"))
	if raw == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("format is required"))
	}
	target, err := format.Parse(raw)
	if err != nil {
		return nil, pkgerror.NewInvalidInput(err)
	}

	res, err := h.uc.Convert(ctx, pkgrouter.GetParam(ctx, "id"), target)
	if err != nil {
		return nil, err
	}
	return ConvertResponse{ConvertResult: res}, nil
}

func (h *HTTPEndpoint) Download(ctx context.Context, _ *http.Request) (any, error) {
	art, err := h.uc.Download(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}
	return &pkgrouter.Raw{ContentType: art.MimeType, Filename: art.Filename, Body: art.Data}, nil
}

func (h *HTTPEndpoint) Delete(ctx context.Context, _ *http.Request) (any, error) {
	if err := h.uc.Delete(ctx, pkgrouter.GetParam(ctx, "id")); err != nil {
		return nil, err
	}
	return nil, nil
}

func errorText(err error) string {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr.Msg()
	}
	return err.Error()
}

// extractFiles reads every part of the FormField field into memory, in
// the order the client sent them.
func extractFiles(r *http.Request) ([]usecase.UploadedFile, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return nil, pkgerror.NewInvalidFormat(errors.New("expected multipart/form-data"))
	}
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, pkgerror.NewInvalidFormat(err)
	}

	var files []usecase.UploadedFile
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, bodyErr(err)
		}
		if part.FormName() != FormField || part.FileName() == "" {
			_ = part.Close()
			continue
		}
		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, bodyErr(err)
		}
		files = append(files, usecase.UploadedFile{
			Name:    part.FileName(),
			Size:    int64(len(content)),
			Content: content,
		})
	}

	if len(files) == 0 {
		return nil, pkgerror.NewInvalidInput(fmt.Errorf("%s part is required", FormField))
	}
	return files, nil
}

func bodyErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerror.NewTooLarge(fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
	}
	return pkgerror.NewInvalidFormat(err)
}
