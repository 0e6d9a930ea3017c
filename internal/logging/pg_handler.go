package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const batchSize = 50

// Sink persists a batch of system logs.
type Sink interface {
	WriteLogs(ctx context.Context, batch []models.SystemLog) error
}

// GormSink writes system logs to the system_logs table.
type GormSink struct {
	DB *gorm.DB
}

func (s GormSink) WriteLogs(ctx context.Context, batch []models.SystemLog) error {
	return s.DB.WithContext(ctx).CreateInBatches(batch, batchSize).Error
}

// PGHandler is an slog.Handler that batches ERROR+ logs into a Sink.
type PGHandler struct {
	state *pgState
	attrs []slog.Attr
}

type pgState struct {
	sink   Sink
	mu     sync.Mutex
	buffer []models.SystemLog
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewPGHandler(sink Sink, interval time.Duration) *PGHandler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	st := &pgState{
		sink:   sink,
		buffer: make([]models.SystemLog, 0, batchSize),
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	st.wg.Add(1)
	go st.flushLoop()
	return &PGHandler{state: st}
}

func (st *pgState) flushLoop() {
	defer st.wg.Done()
	for {
		select {
		case <-st.ticker.C:
			st.flush()
		case <-st.done:
			st.flush()
			return
		}
	}
}

func (st *pgState) flush() {
	st.mu.Lock()
	if len(st.buffer) == 0 {
		st.mu.Unlock()
		return
	}
	batch := st.buffer
	st.buffer = make([]models.SystemLog, 0, batchSize)
	st.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := st.sink.WriteLogs(ctx, batch); err != nil {
		// Must not go through slog.Error: that would loop back into this handler.
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

// Stop flushes what is buffered and stops the background loop.
func (h *PGHandler) Stop() {
	st := h.state
	st.once.Do(func() {
		st.ticker.Stop()
		close(st.done)
	})
	st.wg.Wait()
}

// Enabled only handles ERROR and above.
func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "project_id":
			s := a.Value.String()
			entry.ProjectID = &s
		case "action":
			entry.Action = a.Value.String()
		case "method":
			entry.Method = a.Value.String()
		case "path":
			entry.Path = a.Value.String()
		case "status":
			entry.Status = int(a.Value.Int64())
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			switch a.Value.Kind() {
			case slog.KindFloat64:
				entry.LatencyMs = int(math.Round(a.Value.Float64()))
			case slog.KindInt64:
				entry.LatencyMs = int(a.Value.Int64())
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	st := h.state
	st.mu.Lock()
	st.buffer = append(st.buffer, entry)
	needFlush := len(st.buffer) >= batchSize
	st.mu.Unlock()

	if needFlush {
		go st.flush()
	}
	return nil
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &PGHandler{state: h.state, attrs: merged}
}

// WithGroup is a no-op: system_logs columns are flat.
func (h *PGHandler) WithGroup(_ string) slog.Handler {
	return h
}
