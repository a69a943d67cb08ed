package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"micropantry-api/internal/model"
)

func testClient() *Client {
	return NewClient(time.Second).WithRetry(1, time.Millisecond)
}

func TestDecodeCatalog_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"array", `[{"id":"a"},{"id":"b"}]`, 2},
		{"wrapped", `{"pantries":[{"id":"a"}]}`, 1},
		{"wrapped empty", `{}`, 0},
		{"leading space", "  \n[]", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCatalog([]byte(tt.body))
			if err != nil {
				t.Fatalf("DecodeCatalog: %v", err)
			}
			if got == nil || len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}

	if _, err := DecodeCatalog([]byte(`{"pantries":`)); !errors.Is(err, ErrUnavailable) {
		t.Errorf("malformed: err = %v, want ErrUnavailable", err)
	}
}

func TestDecodeCatalog_DropsMalformedRecords(t *testing.T) {
	good := `{"id":"good","location":{"lat":47.6,"lng":-122.3}}`
	tests := []struct {
		name string
		bad  string
	}{
		{"string latitude", `{"id":"bad","location":{"lat":"47.6","lng":-122.3}}`},
		{"string weight", `{"id":"bad","sensors":{"weightKg":"12.5"}}`},
		{"fractional quantity", `{"id":"bad","inventory":{"categories":[{"name":"Produce","quantity":1.5}]}}`},
		{"numeric updatedAt", `{"id":"bad","sensors":{"updatedAt":1717232400}}`},
		{"not an object", `"bad"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, body := range []string{
				"[" + good + "," + tt.bad + "]",
				`{"pantries":[` + tt.bad + "," + good + "]}",
			} {
				got, err := DecodeCatalog([]byte(body))
				if err != nil {
					t.Fatalf("DecodeCatalog(%s): %v", body, err)
				}
				if len(got) != 1 || got[0].ID != "good" {
					t.Errorf("DecodeCatalog(%s) = %+v, want only the good pantry", body, got)
				}
			}
		})
	}
}

func TestHTTPCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pantries":[{"id":"p1","name":"Corner Fridge","location":{"lat":47.6,"lng":-122.3}}]}`))
	}))
	defer srv.Close()

	pantries, err := NewHTTPCatalog(testClient(), srv.URL).Pantries(context.Background())
	if err != nil {
		t.Fatalf("Pantries: %v", err)
	}
	if len(pantries) != 1 || pantries[0].Name != "Corner Fridge" {
		t.Fatalf("unexpected pantries: %+v", pantries)
	}
	if _, _, ok := pantries[0].Coordinates(); !ok {
		t.Error("coordinates not decoded")
	}
}

func TestFileCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantries.json")
	if err := os.WriteFile(path, []byte(`[{"id":"p1"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := NewFileCatalog(path).Pantries(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("Pantries = %v, %v", got, err)
	}

	_, err = NewFileCatalog(filepath.Join(t.TempDir(), "missing.json")).Pantries(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("missing file: err = %v, want ErrUnavailable", err)
	}
}

func TestHTTPTelemetry_QueryAndShapes(t *testing.T) {
	var gotPath, gotPantry string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPantry = r.URL.Query().Get("pantryId")
		w.Write([]byte(`{"items":[{"ts":"2024-01-01T00:00:00Z","metrics":{"weightKg":3}},"junk",{"ts":"2024-01-02T00:00:00Z","flags":{"door":"open"}}]}`))
	}))
	defer srv.Close()

	src := NewHTTPTelemetry(testClient(), srv.URL+"/", "api/telemetry/history")
	got, err := src.History(context.Background(), "pantry 7")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if gotPath != "/api/telemetry/history" || gotPantry != "pantry 7" {
		t.Errorf("request = %s ?pantryId=%s", gotPath, gotPantry)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (junk dropped)", len(got))
	}
	if got[1].Flags["door"] != "open" {
		t.Errorf("flags = %v", got[1].Flags)
	}
}

func TestHTTPTelemetry_FailuresAreUnavailable(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		switch r.URL.Query().Get("pantryId") {
		case "down":
			w.WriteHeader(http.StatusBadGateway)
		case "missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Write([]byte(`not json`))
		}
	}))

	src := NewHTTPTelemetry(testClient(), srv.URL, "/history")
	tests := []struct {
		pantry    string
		wantCalls int32
	}{
		{"down", 2},    // 5xx is retried once
		{"missing", 1}, // 4xx is not retried
		{"garbage", 1},
	}
	for _, tt := range tests {
		atomic.StoreInt32(&calls, 0)
		_, err := src.History(context.Background(), tt.pantry)
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("%s: err = %v, want ErrUnavailable", tt.pantry, err)
		}
		if c := atomic.LoadInt32(&calls); c != tt.wantCalls {
			t.Errorf("%s: calls = %d, want %d", tt.pantry, c, tt.wantCalls)
		}
	}

	srv.Close()
	if _, err := src.History(context.Background(), "p1"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("closed server: err = %v, want ErrUnavailable", err)
	}
}

type fakeTelemetryRepo struct {
	records []model.TelemetryRecord
	err     error
	limit   int
}

func (f *fakeTelemetryRepo) InsertBatch(ctx context.Context, records []model.TelemetryRecord) error {
	return nil
}

func (f *fakeTelemetryRepo) History(ctx context.Context, pantryID string, limit int) ([]model.TelemetryRecord, error) {
	f.limit = limit
	return f.records, f.err
}

func (f *fakeTelemetryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func TestStoreTelemetry(t *testing.T) {
	w := 4.5
	repo := &fakeTelemetryRepo{records: []model.TelemetryRecord{
		{PantryID: "p1", TS: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), WeightKg: &w, Door: "closed"},
	}}
	got, err := NewStoreTelemetry(repo, 100).History(context.Background(), "p1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if repo.limit != 100 {
		t.Errorf("limit = %d, want 100", repo.limit)
	}
	if len(got) != 1 || got[0].TS != "2024-01-01T08:00:00Z" || got[0].Metrics["weightKg"] != 4.5 || got[0].Flags["door"] != "closed" {
		t.Errorf("unexpected raw: %+v", got)
	}

	repo.err = errors.New("disk gone")
	if _, err := NewStoreTelemetry(repo, 100).History(context.Background(), "p1"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
