// Package export re-encodes a cleaned table into a downloadable artifact.
package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wdm0006/datasweeper/pkg/format"
	"github.com/wdm0006/datasweeper/pkg/io/csvio"
	"github.com/wdm0006/datasweeper/pkg/io/parquetio"
	"github.com/wdm0006/datasweeper/pkg/io/xlsxio"
	"github.com/wdm0006/datasweeper/pkg/table"
)

// ErrEncode is matched by every EncodeError.
var ErrEncode = errors.New("encode failure")

// EncodeError reports a table the target format cannot represent.
type EncodeError struct {
	Format format.Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() []error { return []error{ErrEncode, e.Err} }

// Artifact is an encoded file ready for download.
type Artifact struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// Size returns the encoded length in bytes.
func (a Artifact) Size() int { return len(a.Data) }

// Encode renders t in the target format. The artifact is named after
// sourceName with its extension replaced. On failure no artifact is
// returned.
func Encode(t *table.Table, sourceName string, target format.Format) (Artifact, error) {
	var buf bytes.Buffer
	var err error
	switch target {
	case format.CSV:
		err = csvio.Write(&buf, t, csvio.WriterOptions{})
	case format.Excel:
		err = xlsxio.Write(&buf, t)
	case format.Parquet:
		err = parquetio.Write(&buf, t)
	default:
		return Artifact{}, fmt.Errorf("target %s: %w", target, format.ErrUnsupported)
	}
	if err != nil {
		return Artifact{}, &EncodeError{Format: target, Err: err}
	}
	return Artifact{
		Filename: format.OutputName(sourceName, target),
		MimeType: target.MimeType(),
		Data:     buf.Bytes(),
	}, nil
}
