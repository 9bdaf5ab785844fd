package inbound

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgrouter"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkguid"
	"github.com/Lakshm1-R/placement-app/internal/placement/store"
	"github.com/Lakshm1-R/placement-app/internal/placement/usecase"
)

type envelope[T any] struct {
	Message string         `json:"message"`
	Data    T              `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type errorBody struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

const sheet = "Department: CSE\n" +
	"Name,Company,Package(LPA)\n" +
	"John,ABC Ltd,5\n" +
	"Jane,,0\n" +
	"Department: ECE\n" +
	"S.No,Student Name,Company Name,CTC\n" +
	"1,Ravi,ABC Pvt. Ltd.,7\n" +
	"2,Short\n"

func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()

	uc := usecase.New(usecase.Dependency{
		Store: store.NewInMemoryStore(),
		ID:    pkguid.NewUUID(),
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc, opts)
	return router
}

func do(t *testing.T, router http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func multipartBody(t *testing.T, batch, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	// batch after the file part on purpose: the form is parsed as a whole
	if batch != "" {
		if err := writer.WriteField("batch", batch); err != nil {
			t.Fatalf("write batch: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func TestBatchLifecycle(t *testing.T) {
	router := newTestRouter(t, Options{})

	rec := do(t, router, http.MethodPost, "/placement-analytics/batches", strings.NewReader(`{"batch_name":"2025"}`), "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add batch status: %d", rec.Code)
	}
	added := decode[envelope[AddBatchResponse]](t, rec)
	if added.Data.Batch != "2025" || added.Message != "batch added successfully" {
		t.Fatalf("unexpected add response: %+v", added)
	}

	rec = do(t, router, http.MethodPost, "/placement-analytics/batches", strings.NewReader(`{"batch_name":"2025"}`), "application/json")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate batch status: %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/placement-analytics/batches", strings.NewReader(`{"batch_name":"  "}`), "application/json")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank batch status: %d", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Error["batch_name"] != "batch_name is required" {
		t.Fatalf("unexpected validation body: %+v", body)
	}

	rec = do(t, router, http.MethodPost, "/placement-analytics/batches", strings.NewReader(`{`), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status: %d", rec.Code)
	}

	body, ct := multipartBody(t, "2024", "placements.csv", sheet)
	rec = do(t, router, http.MethodPost, "/placement-analytics/upload", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status: %d body=%s", rec.Code, rec.Body.String())
	}
	uploaded := decode[envelope[UploadResponse]](t, rec)
	if uploaded.Data.Replaced || uploaded.Data.FileName != "placements.csv" {
		t.Fatalf("unexpected upload response: %+v", uploaded.Data)
	}
	st := uploaded.Data.Statistics
	if st.TotalStudents != 3 || st.PlacedStudents != 2 || st.PlacementRate != 67 || st.TotalCompanies != 1 {
		t.Fatalf("unexpected statistics: %+v", st)
	}
	if uploaded.Data.Parse.Dropped != 1 {
		t.Fatalf("expected one dropped row, got %+v", uploaded.Data.Parse)
	}

	rec = do(t, router, http.MethodGet, "/placement-analytics/batches", nil, "")
	list := decode[envelope[BatchesResponse]](t, rec)
	if strings.Join(list.Data.Batches, ",") != "2024,2025" {
		t.Fatalf("unexpected batches: %v", list.Data.Batches)
	}

	rec = do(t, router, http.MethodGet, "/placement-analytics/batches/2024", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics status: %d", rec.Code)
	}
	analytics := decode[envelope[AnalyticsResponse]](t, rec)
	if analytics.Data.Analytics.TotalStudents != 3 || len(analytics.Data.Analytics.DepartmentStats) != 2 {
		t.Fatalf("unexpected analytics: %+v", analytics.Data.Analytics)
	}

	rec = do(t, router, http.MethodGet, "/placement-analytics/batches/2024/records?status=placed&page_size=1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("records status: %d", rec.Code)
	}
	records := decode[envelope[RecordsResponse]](t, rec)
	if len(records.Data.Records) != 1 || records.Data.Records[0].Name != "John" {
		t.Fatalf("unexpected records: %+v", records.Data.Records)
	}
	if records.Meta["total"] != float64(2) || records.Meta["page_size"] != float64(1) {
		t.Fatalf("unexpected records meta: %v", records.Meta)
	}

	rec = do(t, router, http.MethodGet, "/placement-analytics/batches/2024/records?department=ece", nil, "")
	records = decode[envelope[RecordsResponse]](t, rec)
	if len(records.Data.Records) != 1 || records.Data.Records[0].Name != "Ravi" {
		t.Fatalf("unexpected ECE records: %+v", records.Data.Records)
	}

	rec = do(t, router, http.MethodGet, "/placement-analytics/batches/2024/records?status=maybe", nil, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad status filter: %d", rec.Code)
	}

	rec = do(t, router, http.MethodDelete, "/placement-analytics/batches/2024", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status: %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/placement-analytics/batches/2024", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("analytics after delete: %d", rec.Code)
	}
	rec = do(t, router, http.MethodDelete, "/placement-analytics/batches/2024", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete twice: %d", rec.Code)
	}
}

func TestUploadValidation(t *testing.T) {
	router := newTestRouter(t, Options{})

	body, ct := multipartBody(t, "", "placements.csv", sheet)
	rec := do(t, router, http.MethodPost, "/placement-analytics/upload", body, ct)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing batch status: %d", rec.Code)
	}
	if got := decode[errorBody](t, rec); got.Error["batch"] != "batch is required" {
		t.Fatalf("unexpected body: %+v", got)
	}

	body, ct = multipartBody(t, "2025", "", "")
	rec = do(t, router, http.MethodPost, "/placement-analytics/upload", body, ct)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing file status: %d", rec.Code)
	}
	if got := decode[errorBody](t, rec); got.Error["file"] != "file is required" {
		t.Fatalf("unexpected body: %+v", got)
	}

	rec = do(t, router, http.MethodPost, "/placement-analytics/upload", strings.NewReader(sheet), "text/csv")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non multipart status: %d", rec.Code)
	}
}

func TestUploadTooLarge(t *testing.T) {
	router := newTestRouter(t, Options{MaxUploadBytes: 128})

	body, ct := multipartBody(t, "2025", "big.csv", strings.Repeat("x,1\n", 200))
	rec := do(t, router, http.MethodPost, "/placement-analytics/upload", body, ct)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversize status: %d", rec.Code)
	}
	if got := decode[errorBody](t, rec); got.Message != "payload exceeds 128 bytes" {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

func TestUploadUnknownExtensionSucceedsEmpty(t *testing.T) {
	router := newTestRouter(t, Options{})

	body, ct := multipartBody(t, "2025", "report.pdf", "%PDF-1.4")
	rec := do(t, router, http.MethodPost, "/placement-analytics/upload", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf upload status: %d", rec.Code)
	}
	got := decode[envelope[UploadResponse]](t, rec)
	if got.Data.Statistics.TotalStudents != 0 || got.Data.Statistics.CompanyStats == nil {
		t.Fatalf("expected empty statistics: %+v", got.Data.Statistics)
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, size       string
		wantPage, wantSz int
		wantErr          bool
	}{
		{page: "", size: "", wantPage: 1, wantSz: 20},
		{page: "3", size: "500", wantPage: 3, wantSz: 100},
		{page: "0", size: "", wantErr: true},
		{page: "", size: "x", wantErr: true},
	}

	for _, tt := range tests {
		page, size, err := parsePagination(tt.page, tt.size)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parsePagination(%q, %q) expected error", tt.page, tt.size)
			}
			continue
		}
		if err != nil || page != tt.wantPage || size != tt.wantSz {
			t.Fatalf("parsePagination(%q, %q) = %d, %d, %v", tt.page, tt.size, page, size, err)
		}
	}
}
