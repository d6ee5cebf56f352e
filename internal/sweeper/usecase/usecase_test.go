package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/datasweeper/internal/pkg/pkgerror"
	"github.com/wdm0006/datasweeper/internal/session"
	"github.com/wdm0006/datasweeper/pkg/format"
	"github.com/wdm0006/datasweeper/pkg/table"
	"github.com/wdm0006/datasweeper/pkg/transform/impute"
	"github.com/wdm0006/datasweeper/pkg/transform/standardize"
)

type seqID struct{ n int }

func (s *seqID) Generate() string {
	s.n++
	return fmt.Sprintf("s-%d", s.n)
}

type countingMetrics struct {
	files     map[string]int
	cleaned   map[string]int
	converted map[string]int
	active    int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{files: map[string]int{}, cleaned: map[string]int{}, converted: map[string]int{}}
}

func (m *countingMetrics) FileProcessed(format, result string) { m.files[format+"/"+result]++ }
func (m *countingMetrics) Cleaned(op string, n int)            { m.cleaned[op] += n }
func (m *countingMetrics) Converted(format, result string)     { m.converted[format+"/"+result]++ }
func (m *countingMetrics) SessionsActive(n int)                { m.active = n }

func newUsecase(t *testing.T) (*Usecase, *countingMetrics) {
	t.Helper()
	m := newCountingMetrics()
	return New(Dependency{
		Store:   session.NewStore(0),
		ID:      &seqID{},
		Metrics: m,
		Parse:   DefaultParseOptions(),
	}), m
}

func csvFile(name, body string) UploadedFile {
	return UploadedFile{Name: name, Content: []byte(body)}
}

func status(t *testing.T, err error) int {
	t.Helper()
	var perr *pkgerror.Error
	require.True(t, errors.As(err, &perr), "expected pkgerror, got %v", err)
	return perr.StatusCode()
}

func upload(t *testing.T, uc *Usecase, f UploadedFile) string {
	t.Helper()
	res, err := uc.Upload(context.Background(), []UploadedFile{f})
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.NoError(t, res[0].Err)
	return res[0].Info.ID
}

func TestUploadKeepsFilesIndependent(t *testing.T) {
	uc, m := newUsecase(t)
	res, err := uc.Upload(context.Background(), []UploadedFile{
		csvFile("a.csv", "id,value\n1,20\n2,\n"),
		csvFile("notes.txt", "hello"),
		csvFile("broken.csv", "a,b\n1,2\n1,2,3\n"),
		csvFile("b.CSV", "x\nfoo\n"),
	})
	require.NoError(t, err)
	require.Len(t, res, 4)

	assert.NoError(t, res[0].Err)
	assert.Equal(t, "s-1", res[0].Info.ID)
	assert.Equal(t, session.StateParsed, res[0].Info.State)
	assert.Equal(t, 2, res[0].Info.Rows)
	assert.Equal(t, LevelSuccess, res[0].Messages[len(res[0].Messages)-1].Level)

	assert.Empty(t, res[1].Info.ID)
	assert.Equal(t, http.StatusUnsupportedMediaType, status(t, res[1].Err))
	assert.True(t, errors.Is(res[1].Err, format.ErrUnsupported))
	assert.Equal(t, LevelError, res[1].Messages[len(res[1].Messages)-1].Level)

	assert.Equal(t, session.StateFailed, res[2].Info.State)
	assert.Equal(t, http.StatusUnprocessableEntity, status(t, res[2].Err))
	assert.Contains(t, res[2].Info.Error, "line 3")

	assert.NoError(t, res[3].Err)
	assert.Equal(t, "s-3", res[3].Info.ID)

	assert.Equal(t, 2, m.files["CSV/parsed"])
	assert.Equal(t, 1, m.files["CSV/failed"])
	assert.Equal(t, 1, m.files["UNSUPPORTED/unsupported"])
	assert.Equal(t, 3, m.active)
}

func TestUploadRejectsEmptyBatch(t *testing.T) {
	uc, _ := newUsecase(t)
	_, err := uc.Upload(context.Background(), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status(t, err))
}

func TestPreview(t *testing.T) {
	uc, _ := newUsecase(t)
	var b strings.Builder
	b.WriteString("n,label\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "%d,row%d\n", i, i)
	}
	b.WriteString(",\n")
	id := upload(t, uc, csvFile("rows.csv", b.String()))

	p, err := uc.Preview(context.Background(), id, 0)
	require.NoError(t, err)
	assert.Len(t, p.Rows, DefaultPreviewRows)
	assert.Equal(t, []Column{{Name: "n", Kind: table.KindNumeric}, {Name: "label", Kind: table.KindText}}, p.Columns)
	assert.Equal(t, []any{json.Number("0"), "row0"}, p.Rows[0])
	require.NotNil(t, p.Profile)
	assert.Equal(t, 9, p.Profile.Rows)
	assert.Equal(t, 1, p.Profile.Columns[0].Missing)

	p, err = uc.Preview(context.Background(), id, 100)
	require.NoError(t, err)
	assert.Len(t, p.Rows, 9)
	assert.Equal(t, []any{nil, nil}, p.Rows[8])

	_, err = uc.Preview(context.Background(), "nope", 0)
	assert.Equal(t, http.StatusNotFound, status(t, err))
}

func TestPreviewKeepsWideIntegers(t *testing.T) {
	uc, _ := newUsecase(t)
	id := upload(t, uc, csvFile("ids.csv", "id,amount\n9007199254740993,2500000\n"))

	p, err := uc.Preview(context.Background(), id, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("9007199254740993"), json.Number("2500000")}, p.Rows[0])

	b, err := json.Marshal(p.Rows)
	require.NoError(t, err)
	assert.Equal(t, `[[9007199254740993,2500000]]`, string(b))
}

func TestPreviewOfFailedFile(t *testing.T) {
	uc, _ := newUsecase(t)
	res, err := uc.Upload(context.Background(), []UploadedFile{csvFile("bad.csv", "")})
	require.NoError(t, err)
	require.Error(t, res[0].Err)

	p, err := uc.Preview(context.Background(), res[0].Info.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, session.StateFailed, p.Info.State)
	assert.NotEmpty(t, p.Info.Error)
	assert.Nil(t, p.Profile)

	_, err = uc.RemoveDuplicates(context.Background(), res[0].Info.ID)
	assert.Equal(t, http.StatusConflict, status(t, err))
}

func TestCleaning(t *testing.T) {
	uc, m := newUsecase(t)
	id := upload(t, uc, csvFile("d.csv", "id,value\n1,10\n1,10\n2,\n3,30\n"))

	before, err := uc.Preview(context.Background(), id, 10)
	require.NoError(t, err)

	res, err := uc.RemoveDuplicates(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []StepResult{{Name: "remove_duplicates", Changes: 1}}, res.Steps)
	assert.Equal(t, session.StateCleaned, res.Info.State)
	assert.Equal(t, 3, res.Info.Rows)

	res, err = uc.FillMissing(context.Background(), id, impute.StrategyMedian, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Steps[0].Changes)

	after, err := uc.Preview(context.Background(), id, 10)
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("2"), json.Number("20")}, after.Rows[1])
	assert.Len(t, before.Rows, 4)

	_, err = uc.Clean(context.Background(), id, &standardize.TrimSpace{Column: "missing"})
	assert.Equal(t, http.StatusUnprocessableEntity, status(t, err))

	assert.Equal(t, 1, m.cleaned["remove_duplicates"])
	assert.Equal(t, 1, m.cleaned["fill_missing"])
}

func TestVisualize(t *testing.T) {
	uc, _ := newUsecase(t)
	one := upload(t, uc, csvFile("one.csv", "a,b\n1,x\n2,y\n"))
	two := upload(t, uc, csvFile("two.csv", "a,b,c\n1,x,3\n2,y,\n"))

	res, err := uc.Visualize(context.Background(), one)
	require.NoError(t, err)
	assert.Nil(t, res.Chart)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, LevelWarning, res.Messages[0].Level)
	assert.Equal(t, session.StateParsed, res.Info.State)

	_, err = uc.ChartSVG(context.Background(), one)
	assert.Equal(t, http.StatusUnprocessableEntity, status(t, err))

	res, err = uc.Visualize(context.Background(), two)
	require.NoError(t, err)
	require.NotNil(t, res.Chart)
	assert.Equal(t, "a", res.Chart.Series[0].Name)
	assert.Equal(t, "c", res.Chart.Series[1].Name)
	assert.Nil(t, res.Chart.Series[1].Values[1])
	assert.Equal(t, session.StateVisualized, res.Info.State)

	svg, err := uc.ChartSVG(context.Background(), two)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(svg), "<svg"))
}

func TestConvertAndDownload(t *testing.T) {
	uc, m := newUsecase(t)
	id := upload(t, uc, csvFile("report.CSV", "id,value\n1,20\n2,20.5\n3,\n"))

	_, err := uc.Download(context.Background(), id)
	assert.Equal(t, http.StatusConflict, status(t, err))

	conv, err := uc.Convert(context.Background(), id, format.CSV)
	require.NoError(t, err)
	assert.Equal(t, "report.csv", conv.Filename)
	assert.Equal(t, session.StateConverted, conv.Info.State)

	art, err := uc.Download(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "id,value\n1,20\n2,20.5\n3,\n", string(art.Data))
	assert.Equal(t, "text/csv", art.MimeType)

	// a second download is fine, cleaning drops the artifact
	_, err = uc.Download(context.Background(), id)
	require.NoError(t, err)
	_, err = uc.RemoveDuplicates(context.Background(), id)
	require.NoError(t, err)
	_, err = uc.Download(context.Background(), id)
	assert.Equal(t, http.StatusConflict, status(t, err))

	assert.Equal(t, 1, m.converted["CSV/ok"])
}

func TestConvertFailureKeepsSession(t *testing.T) {
	uc, m := newUsecase(t)
	id := upload(t, uc, csvFile("odd.csv", "a=b,c\n1,2\n"))

	_, err := uc.Convert(context.Background(), id, format.Parquet)
	assert.Equal(t, http.StatusUnprocessableEntity, status(t, err))

	p, err := uc.Preview(context.Background(), id, 0)
	require.NoError(t, err)
	assert.Equal(t, session.StateParsed, p.Info.State)
	assert.Equal(t, 1, m.converted["PARQUET/failed"])

	_, err = uc.Convert(context.Background(), id, format.Excel)
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	uc, m := newUsecase(t)
	id := upload(t, uc, csvFile("x.csv", "a\n1\n"))
	require.NoError(t, uc.Delete(context.Background(), id))
	assert.Equal(t, 0, m.active)
	assert.Equal(t, http.StatusNotFound, status(t, uc.Delete(context.Background(), id)))
}
