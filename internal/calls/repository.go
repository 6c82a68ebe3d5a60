package calls

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/webhook"
	"github.com/sddhantjaiii/Calling-agent-sub001/pkg/utils"
)

var ErrInvalidFilter = eris.New("calls: invalid filter")

// DefaultListLimit caps ListCalls when the filter sets no limit.
const DefaultListLimit = 500

// Repository stores normalized webhooks.
//
// SaveWebhook returns inserted=false when a call with the same non-empty
// conversation id already exists; the returned record is then the one that
// would have been written, not the stored one.
type Repository interface {
	SaveWebhook(ctx context.Context, nw webhook.NormalizedWebhook) (rec Record, inserted bool, err error)
	ListCalls(ctx context.Context, f ListFilter) ([]Record, error)
}

// ListFilter selects calls created in [From, To).
type ListFilter struct {
	AgentID string
	Source  webhook.CallSource
	From    time.Time
	To      time.Time
	Limit   int
}

func (f ListFilter) validate() error {
	if f.From.IsZero() || f.To.IsZero() || !f.To.After(f.From) {
		return ErrInvalidFilter
	}
	if f.Limit < 0 {
		return ErrInvalidFilter
	}
	return nil
}

func (f ListFilter) limit() int {
	if f.Limit == 0 {
		return DefaultListLimit
	}
	return f.Limit
}

// DB is the subset of *pgxpool.Pool used by PostgresRepo. The tables it
// expects are in schema.sql.
type DB interface {
	utils.TxBeginner
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresRepo struct {
	db  DB
	now func() time.Time
}

func NewPostgresRepo(db DB) *PostgresRepo {
	return &PostgresRepo{db: db, now: time.Now}
}

const insertCallSQL = `INSERT INTO calls (
	id, conversation_id, agent_id, caller_id, called_number, source,
	contact_phone, contact_name, contact_email,
	duration_seconds, duration_minutes, started_at,
	payload_version, is_valid, errors, warnings, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
ON CONFLICT (conversation_id) WHERE conversation_id <> '' DO NOTHING`

const insertLeadSQL = `INSERT INTO lead_analytics (
	call_id, lead_status_tag, total_score,
	intent_score, urgency_score, budget_score, fit_score, engagement_score,
	reasoning, analysis_strategy,
	cta_pricing_clicked, cta_demo_clicked, cta_followup_clicked, cta_sample_clicked, cta_escalated_to_human,
	levels
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

// SaveWebhook writes the call and its lead analytics in one transaction.
func (r *PostgresRepo) SaveWebhook(ctx context.Context, nw webhook.NormalizedWebhook) (Record, bool, error) {
	rec := NewRecord(nw, uuid.NewString(), r.now().UTC())
	inserted := false

	err := utils.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		c := rec.Call
		tag, err := tx.Exec(ctx, insertCallSQL,
			c.ID, c.ConversationID, c.AgentID, c.CallerID, c.CalledNumber, string(c.Source),
			c.ContactPhone, c.ContactName, c.ContactEmail,
			c.DurationSeconds, c.DurationMinutes, c.StartedAt,
			string(c.PayloadVersion), c.IsValid, c.Errors, c.Warnings, c.CreatedAt,
		)
		if err != nil {
			return eris.Wrap(err, "calls: insert call")
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		inserted = true

		l := rec.Lead
		if l == nil {
			return nil
		}
		levels, err := json.Marshal(l.Levels)
		if err != nil {
			return eris.Wrap(err, "calls: encode levels")
		}
		if _, err := tx.Exec(ctx, insertLeadSQL,
			l.CallID, l.LeadStatusTag, l.TotalScore,
			l.IntentScore, l.UrgencyScore, l.BudgetScore, l.FitScore, l.EngagementScore,
			l.Reasoning, l.AnalysisStrategy,
			l.CTAPricingClicked, l.CTADemoClicked, l.CTAFollowupClicked, l.CTASampleClicked, l.CTAEscalatedToHuman,
			levels,
		); err != nil {
			return eris.Wrap(err, "calls: insert lead analytics")
		}
		return nil
	})
	if err != nil {
		return Record{}, false, err
	}
	return rec, inserted, nil
}

const listCallsSQL = `SELECT
	c.id, c.conversation_id, c.agent_id, c.caller_id, c.called_number, c.source,
	c.contact_phone, c.contact_name, c.contact_email,
	c.duration_seconds, c.duration_minutes, c.started_at,
	c.payload_version, c.is_valid, c.errors, c.warnings, c.created_at,
	l.lead_status_tag, l.total_score,
	l.intent_score, l.urgency_score, l.budget_score, l.fit_score, l.engagement_score,
	l.reasoning, l.analysis_strategy,
	l.cta_pricing_clicked, l.cta_demo_clicked, l.cta_followup_clicked, l.cta_sample_clicked, l.cta_escalated_to_human,
	l.levels
FROM calls c
LEFT JOIN lead_analytics l ON l.call_id = c.id
WHERE ($1 = '' OR c.agent_id = $1)
  AND ($2 = '' OR c.source = $2)
  AND c.created_at >= $3 AND c.created_at < $4
ORDER BY c.created_at, c.id
LIMIT $5`

func (r *PostgresRepo) ListCalls(ctx context.Context, f ListFilter) ([]Record, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, listCallsSQL, f.AgentID, string(f.Source), f.From, f.To, f.limit())
	if err != nil {
		return nil, eris.Wrap(err, "calls: list")
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "calls: list rows")
	}
	return out, nil
}

func scanRecord(rows pgx.Rows) (Record, error) {
	var (
		c         Call
		l         LeadAnalytics
		source    string
		version   string
		tag       *string
		total     *int
		reasoning *string
		strategy  *string
		pricing   *bool
		demo      *bool
		followup  *bool
		sample    *bool
		escalated *bool
		levels    []byte
	)
	err := rows.Scan(
		&c.ID, &c.ConversationID, &c.AgentID, &c.CallerID, &c.CalledNumber, &source,
		&c.ContactPhone, &c.ContactName, &c.ContactEmail,
		&c.DurationSeconds, &c.DurationMinutes, &c.StartedAt,
		&version, &c.IsValid, &c.Errors, &c.Warnings, &c.CreatedAt,
		&tag, &total,
		&l.IntentScore, &l.UrgencyScore, &l.BudgetScore, &l.FitScore, &l.EngagementScore,
		&reasoning, &strategy,
		&pricing, &demo, &followup, &sample, &escalated,
		&levels,
	)
	if err != nil {
		return Record{}, eris.Wrap(err, "calls: scan")
	}
	c.Source = webhook.CallSource(source)
	c.PayloadVersion = webhook.PayloadVersion(version)

	rec := Record{Call: c}
	if tag == nil {
		return rec, nil
	}
	l.CallID = c.ID
	l.LeadStatusTag = *tag
	l.TotalScore = deref(total)
	l.Reasoning = deref(reasoning)
	l.AnalysisStrategy = deref(strategy)
	l.CTAPricingClicked = deref(pricing)
	l.CTADemoClicked = deref(demo)
	l.CTAFollowupClicked = deref(followup)
	l.CTASampleClicked = deref(sample)
	l.CTAEscalatedToHuman = deref(escalated)
	if len(levels) > 0 {
		if err := json.Unmarshal(levels, &l.Levels); err != nil {
			return Record{}, eris.Wrap(err, "calls: decode levels")
		}
	}
	rec.Lead = &l
	return rec, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
