package inbound

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func TestCleanAndConvertScenario(t *testing.T) {
	convey.Convey("Given a CSV with a duplicate row and a missing value", t, func() {
		router := newRouter(t, 0)
		body, ct := multipartBody(t, FormField, upload{"data.csv", "id,value\n1,20\n1,20\n2,\n"})
		rec := do(t, router, http.MethodPost, "/files", body, ct)
		convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		files := decode[UploadResponse](t, rec).Data.Files
		convey.So(files, convey.ShouldHaveLength, 1)
		id := files[0].Info.ID
		convey.So(files[0].Info.Rows, convey.ShouldEqual, 3)

		convey.Convey("Removing duplicates keeps two rows", func() {
			rec := do(t, router, http.MethodPost, "/files/"+id+"/duplicates", nil, "")
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			cleaned := decode[CleanResponse](t, rec)
			convey.So(cleaned.Data.Info.Rows, convey.ShouldEqual, 2)
			convey.So(cleaned.Message, convey.ShouldStartWith, "Duplicates removed!")

			convey.Convey("Filling missing values uses the column mean", func() {
				rec := do(t, router, http.MethodPost, "/files/"+id+"/missing", nil, "")
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

				rec = do(t, router, http.MethodGet, "/files/"+id, nil, "")
				preview := decode[PreviewResponse](t, rec)
				convey.So(preview.Data.Rows, convey.ShouldResemble, [][]any{{1.0, 20.0}, {2.0, 20.0}})

				convey.Convey("Converting to Excel yields a workbook with the same header", func() {
					rec := do(t, router, http.MethodPost, "/files/"+id+"/convert?format=excel", nil, "")
					convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
					conv := decode[ConvertResponse](t, rec)
					convey.So(conv.Data.Filename, convey.ShouldEqual, "data.xlsx")

					rec = do(t, router, http.MethodGet, "/files/"+id+"/download", nil, "")
					convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
					convey.So(rec.Header().Get("Content-Disposition"), convey.ShouldContainSubstring, "data.xlsx")

					wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
					convey.So(err, convey.ShouldBeNil)
					defer func() { _ = wb.Close() }()
					rows, err := wb.GetRows("Sheet1")
					convey.So(err, convey.ShouldBeNil)
					convey.So(rows, convey.ShouldResemble, [][]string{{"id", "value"}, {"1", "20"}, {"2", "20"}})
				})
			})
		})
	})
}
