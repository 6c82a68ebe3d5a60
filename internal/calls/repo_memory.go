package calls

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/webhook"
)

// MemoryRepo is an in-memory Repository for tests and local runs without a
// database. It applies the same conversation id uniqueness as Postgres.
type MemoryRepo struct {
	mu sync.Mutex

	records []Record
	byConv  map[string]int

	now func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byConv: map[string]int{}, now: time.Now}
}

func (r *MemoryRepo) SaveWebhook(ctx context.Context, nw webhook.NormalizedWebhook) (Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := NewRecord(nw, uuid.NewString(), r.now().UTC())
	id := rec.Call.ConversationID
	if id != "" {
		if _, ok := r.byConv[id]; ok {
			return rec, false, nil
		}
		r.byConv[id] = len(r.records)
	}
	r.records = append(r.records, rec)
	return rec, true, nil
}

// Add stores rec as is. Used to seed reports in tests.
func (r *MemoryRepo) Add(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id := rec.Call.ConversationID; id != "" {
		r.byConv[id] = len(r.records)
	}
	r.records = append(r.records, rec)
}

func (r *MemoryRepo) ListCalls(ctx context.Context, f ListFilter) ([]Record, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, 0)
	for _, rec := range r.records {
		c := rec.Call
		if f.AgentID != "" && c.AgentID != f.AgentID {
			continue
		}
		if f.Source != "" && c.Source != f.Source {
			continue
		}
		if c.CreatedAt.Before(f.From) || !c.CreatedAt.Before(f.To) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Call.CreatedAt.Before(out[j].Call.CreatedAt)
	})
	if n := f.limit(); len(out) > n {
		out = out[:n]
	}
	return out, nil
}
