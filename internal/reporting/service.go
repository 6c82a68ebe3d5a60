package reporting

import (
	"context"
	"math"

	"github.com/rotisserie/eris"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/calls"
)

var ErrInvalidRequest = eris.New("reporting: invalid request")

// Repository abstracts data access for reporting. calls.PostgresRepo and
// calls.MemoryRepo both satisfy it.
type Repository interface {
	ListCalls(ctx context.Context, f calls.ListFilter) ([]calls.Record, error)
}

type Service struct {
	repo     Repository
	maxCalls int
}

func NewService(repo Repository) *Service { return &Service{repo: repo, maxCalls: MaxCalls} }

// MaxCalls bounds how many calls one summary reads. A window holding more
// sets LeadSummary.Truncated.
const MaxCalls = 50000

func (s *Service) LeadSummary(ctx context.Context, req LeadSummaryRequest) (LeadSummary, error) {
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return LeadSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return LeadSummary{}, eris.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListCalls(ctx, calls.ListFilter{
		AgentID: req.AgentID,
		From:    req.Range.From,
		To:      req.Range.To,
		Limit:   s.maxCalls + 1,
	})
	if err != nil {
		return LeadSummary{}, eris.Wrap(err, "reporting: list calls")
	}
	truncated := len(rows) > s.maxCalls
	if truncated {
		rows = rows[:s.maxCalls]
	}

	out := LeadSummary{
		AgentID:         req.AgentID,
		Range:           req.Range,
		BySource:        map[string]int{},
		ByLeadStatusTag: map[string]int{},
		Truncated:       truncated,
	}
	scoreSum := 0
	for _, rec := range rows {
		c := rec.Call
		out.TotalCalls++
		out.BySource[string(c.Source)]++
		if c.IsValid {
			out.ValidCalls++
		} else {
			out.InvalidCalls++
		}
		out.TotalDurationSeconds += c.DurationSeconds

		l := rec.Lead
		if l == nil {
			continue
		}
		out.AnalysedCalls++
		out.ByLeadStatusTag[l.LeadStatusTag]++
		scoreSum += l.TotalScore
		out.CTA.add(l)
	}

	if out.TotalCalls > 0 {
		out.AverageDurationSeconds = out.TotalDurationSeconds / out.TotalCalls
	}
	if out.AnalysedCalls > 0 {
		avg := float64(scoreSum) / float64(out.AnalysedCalls)
		out.AverageTotalScore = math.Round(avg*100) / 100
	}
	return out, nil
}

func (c *CTACounts) add(l *calls.LeadAnalytics) {
	if l.CTAPricingClicked {
		c.PricingClicked++
	}
	if l.CTADemoClicked {
		c.DemoClicked++
	}
	if l.CTAFollowupClicked {
		c.FollowupClicked++
	}
	if l.CTASampleClicked {
		c.SampleClicked++
	}
	if l.CTAEscalatedToHuman {
		c.EscalatedToHuman++
	}
}
