package triage

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/linnemanlabs/go-core/log"
)

var tracer = otel.Tracer("github.com/carebridge/carebridge/internal/triage")

// advisorTimeout bounds the optional LLM description call. The rule-based
// result is always available as the fallback, so the budget can stay tight.
const advisorTimeout = 8 * time.Second

// Advisor rewrites the explanatory description of a triage result. The
// suggested department and confidence are never advisor-controlled.
type Advisor interface {
	Describe(ctx context.Context, symptoms string, r *Result) (string, error)
}

// Service wraps the pure engine with metrics, logging, and the optional
// advisor. Analyze never returns an error; advisor failures degrade to the
// rule-based description.
type Service struct {
	engine  *Engine
	advisor Advisor
	logger  log.Logger
	metrics *Metrics
}

// NewService creates a triage service. advisor may be nil.
func NewService(engine *Engine, logger log.Logger, metrics *Metrics, advisor Advisor) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		engine:  engine,
		advisor: advisor,
		logger:  logger,
		metrics: metrics,
	}
}

// Analyze runs the rule engine over the symptom text and, when an advisor is
// configured, attempts to replace the description with an LLM-written one.
func (s *Service) Analyze(ctx context.Context, symptoms string) Result {
	ctx, span := tracer.Start(ctx, "triage.analyze")
	defer span.End()

	start := time.Now()
	result := s.engine.Analyze(symptoms)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.String("carebridge.triage.department", result.SuggestedDepartment),
		attribute.String("carebridge.triage.confidence", string(result.Confidence)),
		attribute.Int("carebridge.triage.matched", len(result.MatchedKeywords)),
	)

	if s.metrics != nil {
		s.metrics.AnalysesTotal.WithLabelValues(result.SuggestedDepartment, string(result.Confidence)).Inc()
		s.metrics.AnalysisDuration.Observe(elapsed.Seconds())
		s.metrics.SymptomTokens.Observe(float64(len(Normalize(symptoms))))
		if result.Confidence == ConfidenceNone {
			s.metrics.NoMatchTotal.Inc()
		}
	}

	s.logger.Info(ctx, "triage analysis",
		"department", result.SuggestedDepartment,
		"confidence", result.Confidence,
		"matched", len(result.MatchedKeywords),
		"duration", elapsed.Seconds(),
	)

	if s.advisor != nil {
		result.Description = s.advise(ctx, symptoms, result)
	}

	return result
}

func (s *Service) advise(ctx context.Context, symptoms string, r Result) string {
	ctx, span := tracer.Start(ctx, "triage.advise")
	defer span.End()

	actx, cancel := context.WithTimeout(ctx, advisorTimeout)
	defer cancel()

	start := time.Now()
	desc, err := s.advisor.Describe(actx, symptoms, &r)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil || desc == "" {
		outcome = "error"
	}
	span.SetAttributes(attribute.String("carebridge.advisor.outcome", outcome))

	if s.metrics != nil {
		s.metrics.AdvisorDuration.Observe(elapsed.Seconds())
	}

	if err != nil || desc == "" {
		if s.metrics != nil {
			s.metrics.AdvisorTotal.WithLabelValues("error").Inc()
		}
		s.logger.Warn(ctx, "advisor call failed, using rule description",
			"error", err,
			"duration", elapsed.Seconds(),
		)
		return r.Description
	}

	if s.metrics != nil {
		s.metrics.AdvisorTotal.WithLabelValues("ok").Inc()
	}
	return desc
}
