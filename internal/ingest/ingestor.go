// Package ingest subscribes to pantry sensor topics over MQTT and writes the
// readings to the telemetry store in batches.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"micropantry-api/internal/config"
	"micropantry-api/internal/logger"
	"micropantry-api/internal/model"
	"micropantry-api/internal/repository"
	"micropantry-api/internal/telemetry"
)

// ErrBadMessage marks a message that cannot become a reading.
var ErrBadMessage = errors.New("bad telemetry message")

// Stats counts ingested messages since start.
type Stats struct {
	Connected bool   `json:"connected"`
	Received  uint64 `json:"received"`
	Rejected  uint64 `json:"rejected"`
	Dropped   uint64 `json:"dropped"`
	Written   uint64 `json:"written"`
	Failed    uint64 `json:"failed"`
}

// Ingestor owns the MQTT client, a bounded message channel and the batch
// writer goroutine draining it.
type Ingestor struct {
	cfg    config.MQTTConfig
	repo   repository.TelemetryRepository
	client mqtt.Client
	log    zerolog.Logger

	msgCh  chan model.TelemetryRecord
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	received, rejected, dropped, written, failed atomic.Uint64
}

// New creates an ingestor writing to repo.
func New(cfg config.MQTTConfig, repo repository.TelemetryRepository) *Ingestor {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	return &Ingestor{
		cfg:   cfg,
		repo:  repo,
		log:   logger.Component("ingest"),
		msgCh: make(chan model.TelemetryRecord, cfg.BufferSize),
	}
}

// Start connects to the broker, subscribes on every (re)connect and starts
// the batch writer.
func (i *Ingestor) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(i.cfg.Broker).
		SetClientID(i.cfg.ClientID).
		SetOrderMatters(false).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetCleanSession(false)

	if i.cfg.Username != "" {
		opts.SetUsername(i.cfg.Username)
		opts.SetPassword(i.cfg.Password)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		i.log.Warn().Err(err).Msg("mqtt connection lost")
	}
	opts.OnConnect = func(c mqtt.Client) {
		i.log.Info().Str("topic", i.cfg.Topic).Msg("mqtt connected, subscribing")
		if token := c.Subscribe(i.cfg.Topic, i.cfg.QoS, i.onMessage); token.Wait() && token.Error() != nil {
			i.log.Error().Err(token.Error()).Msg("mqtt subscribe failed")
		}
	}

	i.client = mqtt.NewClient(opts)
	if tk := i.client.Connect(); tk.Wait() && tk.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", tk.Error())
	}

	i.startWriter(ctx)
	return nil
}

// startWriter launches the batch writer goroutine.
func (i *Ingestor) startWriter(ctx context.Context) {
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		i.batchWriter(ctx)
	}()
}

// Stop disconnects, flushes what is buffered and waits for the writer.
func (i *Ingestor) Stop() {
	if i.client != nil && i.client.IsConnected() {
		i.client.Disconnect(500)
	}

	i.mu.Lock()
	if !i.closed {
		i.closed = true
		close(i.msgCh)
	}
	i.mu.Unlock()

	i.wg.Wait()
}

// IsConnected reports the broker connection state.
func (i *Ingestor) IsConnected() bool {
	return i.client != nil && i.client.IsConnected()
}

// Stats returns the message counters.
func (i *Ingestor) Stats() Stats {
	return Stats{
		Connected: i.IsConnected(),
		Received:  i.received.Load(),
		Rejected:  i.rejected.Load(),
		Dropped:   i.dropped.Load(),
		Written:   i.written.Load(),
		Failed:    i.failed.Load(),
	}
}

func (i *Ingestor) onMessage(_ mqtt.Client, m mqtt.Message) {
	i.handle(m.Topic(), m.Payload(), time.Now().UTC())
}

// handle parses one message and queues it without blocking the MQTT client.
func (i *Ingestor) handle(topic string, payload []byte, receivedAt time.Time) {
	i.received.Add(1)

	rec, err := ParseMessage(topic, payload, receivedAt)
	if err != nil {
		i.rejected.Add(1)
		i.log.Debug().Err(err).Str("topic", topic).Msg("message rejected")
		return
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		i.dropped.Add(1)
		return
	}
	select {
	case i.msgCh <- rec:
	default:
		i.dropped.Add(1)
		i.log.Warn().Str("pantry_id", rec.PantryID).Msg("ingest buffer full, reading dropped")
	}
}

func (i *Ingestor) batchWriter(ctx context.Context) {
	batch := make([]model.TelemetryRecord, 0, i.cfg.BatchSize)
	timer := time.NewTimer(i.cfg.FlushInterval)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// The writer outlives ctx cancellation by one final flush.
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		if err := i.repo.InsertBatch(wctx, batch); err != nil {
			i.failed.Add(uint64(len(batch)))
			i.log.Error().Err(err).Int("readings", len(batch)).Msg("failed to write telemetry batch")
		} else {
			i.written.Add(uint64(len(batch)))
			i.log.Debug().Int("readings", len(batch)).Msg("telemetry batch written")
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			// Take what is already queued without waiting for more.
			for drained := false; !drained; {
				select {
				case rec, ok := <-i.msgCh:
					if !ok {
						drained = true
						break
					}
					batch = append(batch, rec)
					if len(batch) >= i.cfg.BatchSize {
						flush()
					}
				default:
					drained = true
				}
			}
			flush()
			return
		case rec, ok := <-i.msgCh:
			if !ok {
				flush()
				return
			}
			batch = append(batch, rec)
			if len(batch) >= i.cfg.BatchSize {
				flush()
				timer.Reset(i.cfg.FlushInterval)
			}
		case <-timer.C:
			flush()
			timer.Reset(i.cfg.FlushInterval)
		}
	}
}

// ParseMessage turns a message on pantries/<id>/... into a reading. The
// payload is either the history record shape ({ts, metrics, flags}) or a
// flat object ({ts, weightKg, door}); a missing ts means receivedAt.
func ParseMessage(topic string, payload []byte, receivedAt time.Time) (model.TelemetryRecord, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return model.TelemetryRecord{}, fmt.Errorf("%w: topic %q has no pantry id", ErrBadMessage, topic)
	}
	pantryID := parts[1]

	var doc map[string]interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return model.TelemetryRecord{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}

	raw := model.RawTelemetry{TS: receivedAt.UTC().Format(time.RFC3339Nano)}
	if ts, ok := doc["ts"].(string); ok && ts != "" {
		raw.TS = ts
	}
	raw.Metrics, _ = doc["metrics"].(map[string]interface{})
	if raw.Metrics == nil {
		raw.Metrics = doc
	}
	raw.Flags, _ = doc["flags"].(map[string]interface{})
	if raw.Flags == nil {
		raw.Flags = doc
	}

	rec, ok := telemetry.Normalize(pantryID, raw)
	if !ok {
		return model.TelemetryRecord{}, fmt.Errorf("%w: no valid weight or door state", ErrBadMessage)
	}
	return rec, nil
}
