package inbound

import (
	"context"

	"github.com/wdm0006/datasweeper/internal/pkg/pkgrouter"
	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
	"github.com/wdm0006/datasweeper/pkg/export"
	"github.com/wdm0006/datasweeper/pkg/format"
	"github.com/wdm0006/datasweeper/pkg/transform/impute"
)

type uc interface {
	Upload(ctx context.Context, files []usecase.UploadedFile) ([]usecase.FileResult, error)
	Preview(ctx context.Context, id string, rows int) (usecase.Preview, error)
	RemoveDuplicates(ctx context.Context, id string) (usecase.CleanResult, error)
	FillMissing(ctx context.Context, id string, strategy impute.Strategy, value float64) (usecase.CleanResult, error)
	Visualize(ctx context.Context, id string) (usecase.VisualizeResult, error)
	ChartSVG(ctx context.Context, id string) ([]byte, error)
	Convert(ctx context.Context, id string, target format.Format) (usecase.ConvertResult, error)
	Download(ctx context.Context, id string) (export.Artifact, error)
	Delete(ctx context.Context, id string) error
}

// RegisterHTTPEndpoint mounts the file routes. Upload bodies are capped at
// maxUpload bytes; 0 disables the cap.
func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, maxUpload int64) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/files", end.Upload, pkgrouter.MaxBytes(maxUpload))
	r.GET("/files/:id", end.Preview) // ?rows=
	r.DELETE("/files/:id", end.Delete)

	r.POST("/files/:id/duplicates", end.RemoveDuplicates)
	r.POST("/files/:id/missing", end.FillMissing) // ?strategy=&value=
	r.GET("/files/:id/chart", end.Chart)
	r.GET("/files/:id/chart.svg", end.ChartSVG)
	r.POST("/files/:id/convert", end.Convert) // ?format=
	r.GET("/files/:id/download", end.Download)
}
