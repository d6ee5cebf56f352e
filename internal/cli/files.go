package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
)

func readUpload(fs afero.Fs, path string) (usecase.UploadedFile, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return usecase.UploadedFile{}, fmt.Errorf("read input: %w", err)
	}
	return usecase.UploadedFile{Name: filepath.Base(path), Size: int64(len(b)), Content: b}, nil
}

// ingest uploads the file at rep.File, records its messages and returns
// the session id.
func (e *env) ingest(ctx context.Context, rep *fileReport, uc *usecase.Usecase) (string, error) {
	f, err := readUpload(e.fs, rep.File)
	if err != nil {
		rep.add(message(usecase.LevelError, "%s", err))
		return "", rep.fail(err)
	}
	res, err := uc.Upload(ctx, []usecase.UploadedFile{f})
	if err != nil {
		return "", rep.fail(err)
	}
	rep.add(res[0].Messages...)
	if res[0].Err != nil {
		return "", rep.fail(res[0].Err)
	}
	return res[0].Info.ID, nil
}

// writeOutput writes data to dir/name, creating dir. It refuses to replace
// the input file.
func (e *env) writeOutput(input, dir, name string, data []byte) (string, error) {
	out := filepath.Join(dir, name)
	if filepath.Clean(out) == filepath.Clean(input) {
		return "", fmt.Errorf("refusing to overwrite input %s; pick another --out directory", input)
	}
	if err := e.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := afero.WriteFile(e.fs, out, data, 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return out, nil
}
