package parquetio

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/common"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/wdm0006/datasweeper/pkg/table"
)

// Parallelism is the number of goroutines the parquet writer marshals with.
var Parallelism int64 = 4

// CheckNames reports a column name the schema tag syntax cannot carry, or
// two names that map to the same field once parquet-go mangles them.
// Surrounding whitespace and tabs are dropped from tag values, which would
// leave the JSON key without a field.
func CheckNames(s table.Schema) error {
	fields := make(map[string]string, len(s.Columns))
	for _, cs := range s.Columns {
		name := cs.Name
		if name == "" || strings.ContainsAny(name, ",=\t") || strings.TrimSpace(name) != name {
			return fmt.Errorf("column name %q cannot be stored in parquet", name)
		}
		field := common.StringToVariableName(name)
		if prev, ok := fields[field]; ok {
			return fmt.Errorf("column names %q and %q collide in parquet", prev, name)
		}
		fields[field] = name
	}
	return nil
}

func schemaJSON(s table.Schema) (string, error) {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		if cs.Type == table.KindNumeric {
			tag += "DOUBLE"
		} else {
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, err := json.Marshal(sc)
	return string(b), err
}

// Write encodes t as a parquet file. All columns are OPTIONAL so missing
// cells are stored as nulls.
func Write(w io.Writer, t *table.Table) error {
	s := t.Schema()
	if err := CheckNames(s); err != nil {
		return err
	}
	sc, err := schemaJSON(s)
	if err != nil {
		return err
	}
	fw := writerfile.NewWriterFile(w)
	writer, err := pw.NewJSONWriter(sc, fw, Parallelism)
	if err != nil {
		return fmt.Errorf("parquet writer init: %w", err)
	}
	for r := 0; r < t.Rows(); r++ {
		rec := make(map[string]any, len(s.Columns))
		for c, cs := range s.Columns {
			switch col := t.Column(c).(type) {
			case *table.NumericColumn:
				if v, ok := col.Get(r); ok {
					rec[cs.Name] = v
				}
			case *table.TextColumn:
				if v, ok := col.Get(r); ok {
					rec[cs.Name] = v
				}
			}
		}
		b, err := json.Marshal(rec)
		if err != nil {
			_ = writer.WriteStop()
			return fmt.Errorf("parquet encode row %d: %w", r+1, err)
		}
		if err := writer.Write(string(b)); err != nil {
			_ = writer.WriteStop()
			return fmt.Errorf("parquet write row %d: %w", r+1, err)
		}
	}
	if err := writer.WriteStop(); err != nil {
		return fmt.Errorf("parquet finish: %w", err)
	}
	return fw.Close()
}
