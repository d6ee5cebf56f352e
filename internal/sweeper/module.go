// Package sweeper wires the file pipeline behind the HTTP router.
package sweeper

import (
	"github.com/wdm0006/datasweeper/internal/pkg/pkgconfig"
	"github.com/wdm0006/datasweeper/internal/pkg/pkgrouter"
	"github.com/wdm0006/datasweeper/internal/pkg/pkguid"
	"github.com/wdm0006/datasweeper/internal/session"
	"github.com/wdm0006/datasweeper/internal/sweeper/inbound"
	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
)

type Dependency struct {
	Config  pkgconfig.Config
	Router  *pkgrouter.Router
	Store   *session.Store
	ID      pkguid.StringID
	Metrics usecase.Metrics
}

// New registers the file endpoints and returns the use case serving them.
func New(dep Dependency) *usecase.Usecase {
	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	parse := usecase.DefaultParseOptions()
	if tokens := dep.Config.GetArray("upload.null_tokens"); len(tokens) > 0 {
		parse.NullTokens = tokens
	}

	uc := usecase.New(usecase.Dependency{
		Store:       dep.Store,
		ID:          dep.ID,
		Metrics:     dep.Metrics,
		Parse:       parse,
		PreviewRows: int(dep.Config.GetInt("preview.rows")),
		TopK:        int(dep.Config.GetInt("preview.top_values")),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Config.GetInt("upload.max_bytes"))

	return uc
}
