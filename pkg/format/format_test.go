package format

import (
	"errors"
	"testing"
)

func TestDetect(t *testing.T) {
	cases := map[string]Format{
		"report.csv":       CSV,
		"data.XLSX":        Excel,
		"notes.txt":        Unsupported,
		"archive.csv.gz":   Unsupported,
		"legacy.xls":       Unsupported,
		"noext":            Unsupported,
		"dir.v2/Sheet.Csv": CSV,
	}
	for name, want := range cases {
		if got := Detect(name); got != want {
			t.Fatalf("Detect(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDetectStrictNamesExtension(t *testing.T) {
	_, err := DetectStrict("notes.TXT")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if err.Error() != "unsupported file type: .txt" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseSelector(t *testing.T) {
	for in, want := range map[string]Format{"CSV": CSV, "Excel": Excel, "xlsx": Excel, ".parquet": Parquet} {
		got, err := Parse(in)
		if err != nil || got != want {
			t.Fatalf("Parse(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := Parse("pdf"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestOutputName(t *testing.T) {
	cases := []struct {
		in     string
		target Format
		want   string
	}{
		{"report.csv", Excel, "report.xlsx"},
		{"data.XLSX", CSV, "data.csv"},
		{"my.data.csv", CSV, "my.data.csv"},
		{"noext", CSV, "noext.csv"},
		{"/tmp/in/a.csv", Parquet, "a.parquet"},
	}
	for _, c := range cases {
		if got := OutputName(c.in, c.target); got != c.want {
			t.Fatalf("OutputName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMimeTypes(t *testing.T) {
	if CSV.MimeType() != "text/csv" {
		t.Fatal("csv mime")
	}
	if Excel.MimeType() != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatal("excel mime")
	}
}
