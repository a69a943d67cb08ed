package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"micropantry-api/internal/config"
	"micropantry-api/internal/model"
)

type recordingRepo struct {
	mu      sync.Mutex
	batches [][]model.TelemetryRecord
}

func (r *recordingRepo) InsertBatch(ctx context.Context, records []model.TelemetryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := append([]model.TelemetryRecord(nil), records...)
	r.batches = append(r.batches, cp)
	return nil
}

func (r *recordingRepo) History(ctx context.Context, pantryID string, limit int) ([]model.TelemetryRecord, error) {
	return nil, nil
}

func (r *recordingRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *recordingRepo) sizes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.batches))
	for i, b := range r.batches {
		out[i] = len(b)
	}
	return out
}

func TestParseMessage(t *testing.T) {
	received := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		topic   string
		payload string
		wantErr bool
		check   func(t *testing.T, rec model.TelemetryRecord)
	}{
		{
			name:    "history shape",
			topic:   "pantries/p1/telemetry",
			payload: `{"ts":"2024-06-01T10:00:00Z","metrics":{"weightKg":12.5},"flags":{"door":"closed"}}`,
			check: func(t *testing.T, rec model.TelemetryRecord) {
				if rec.PantryID != "p1" || rec.WeightKg == nil || *rec.WeightKg != 12.5 || rec.Door != "closed" {
					t.Errorf("rec = %+v", rec)
				}
				if !rec.TS.Equal(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)) {
					t.Errorf("ts = %v", rec.TS)
				}
			},
		},
		{
			name:    "flat shape without ts",
			topic:   "pantries/p2/telemetry",
			payload: `{"weightkg":"3.25"}`,
			check: func(t *testing.T, rec model.TelemetryRecord) {
				if rec.WeightKg == nil || *rec.WeightKg != 3.25 || !rec.TS.Equal(received) {
					t.Errorf("rec = %+v", rec)
				}
			},
		},
		{name: "no pantry id", topic: "pantries", payload: `{"weightKg":1}`, wantErr: true},
		{name: "not json", topic: "pantries/p1/telemetry", payload: `weight=1`, wantErr: true},
		{name: "nothing usable", topic: "pantries/p1/telemetry", payload: `{"temp":4}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseMessage(tt.topic, []byte(tt.payload), received)
			if tt.wantErr {
				if !errors.Is(err, ErrBadMessage) {
					t.Fatalf("err = %v, want ErrBadMessage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMessage: %v", err)
			}
			tt.check(t, rec)
		})
	}
}

func TestIngestor_BatchesAndFlushesOnStop(t *testing.T) {
	repo := &recordingRepo{}
	ing := New(config.MQTTConfig{BufferSize: 10, BatchSize: 2, FlushInterval: time.Hour}, repo)
	ing.startWriter(context.Background())

	now := time.Now().UTC()
	ing.handle("pantries/p1/telemetry", []byte(`{"weightKg":1}`), now)
	ing.handle("pantries/p1/telemetry", []byte(`{"weightKg":2}`), now)
	ing.handle("pantries/p1/telemetry", []byte(`junk`), now)
	ing.handle("pantries/p2/telemetry", []byte(`{"door":"open"}`), now)
	ing.Stop()

	sizes := repo.sizes()
	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 1 {
		t.Fatalf("batch sizes = %v, want [2 1]", sizes)
	}

	stats := ing.Stats()
	if stats.Received != 4 || stats.Rejected != 1 || stats.Written != 3 || stats.Dropped != 0 {
		t.Errorf("stats = %+v", stats)
	}

	// Messages after Stop are dropped, not sent on a closed channel.
	ing.handle("pantries/p1/telemetry", []byte(`{"weightKg":3}`), now)
	if ing.Stats().Dropped != 1 {
		t.Errorf("dropped = %d, want 1", ing.Stats().Dropped)
	}
	ing.Stop()
}

func TestIngestor_DropsWhenBufferFull(t *testing.T) {
	repo := &recordingRepo{}
	ing := New(config.MQTTConfig{BufferSize: 1, BatchSize: 10, FlushInterval: time.Hour}, repo)

	// No writer is running, so the single slot fills up.
	now := time.Now().UTC()
	ing.handle("pantries/p1/telemetry", []byte(`{"weightKg":1}`), now)
	ing.handle("pantries/p1/telemetry", []byte(`{"weightKg":2}`), now)
	if ing.Stats().Dropped != 1 {
		t.Errorf("dropped = %d, want 1", ing.Stats().Dropped)
	}

	ing.startWriter(context.Background())
	ing.Stop()
	if sizes := repo.sizes(); len(sizes) != 1 || sizes[0] != 1 {
		t.Errorf("batch sizes = %v, want [1]", sizes)
	}
}

func TestIngestor_CancelDrainsQueuedReadings(t *testing.T) {
	repo := &recordingRepo{}
	ing := New(config.MQTTConfig{BufferSize: 10, BatchSize: 2, FlushInterval: time.Hour}, repo)

	now := time.Now().UTC()
	for _, payload := range []string{`{"weightKg":1}`, `{"weightKg":2}`, `{"weightKg":3}`} {
		ing.handle("pantries/p1/telemetry", []byte(payload), now)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ing.startWriter(ctx)
	ing.wg.Wait()

	total := 0
	for _, n := range repo.sizes() {
		total += n
	}
	if total != 3 {
		t.Fatalf("written = %d (batches %v), want 3", total, repo.sizes())
	}
	if got := ing.Stats().Written; got != 3 {
		t.Errorf("stats written = %d, want 3", got)
	}
	ing.Stop()
}
