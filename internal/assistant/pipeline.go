package assistant

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/farmanet/asisbot/config"
	"github.com/farmanet/asisbot/pkg/metrics"
)

// Fixed user-facing replies. Internal failures are never exposed in
// any more detailed form than ReplyFallback.
const (
	ReplyNoTerms  = "Lo siento, no pude identificar un síntoma o producto en tu consulta. ¿Podrías ser más específico?"
	ReplyFallback = "Lo siento, estoy teniendo problemas técnicos. Por favor, intenta más tarde."
)

// Event bus topics published by the pipeline.
const (
	TopicChatCompleted    = "chat:completed"
	TopicAuditWriteFailed = "chat:audit_failed"
)

// Branch names the terminal outcome of one pipeline run.
type Branch string

const (
	BranchNoTerms      Branch = "no_terms"
	BranchNoCandidates Branch = "no_candidates"
	BranchAnswered     Branch = "answered"
	BranchFallback     Branch = "fallback"
)

const auditWriteTimeout = 5 * time.Second

// Pipeline sequences extraction, retrieval, synthesis and the audit
// write for one chat request. It holds no per-request state and is
// safe for concurrent use.
type Pipeline struct {
	extractor     *TermExtractor
	retriever     *CandidateRetriever
	synthesizer   *ResponseSynthesizer
	conversations ConversationRepository
	bus           EventBus.Bus
	callTimeout   time.Duration
}

// NewPipeline wires the pipeline from explicit dependencies so tests
// can substitute stub model clients and stores.
func NewPipeline(
	extractor *TermExtractor,
	retriever *CandidateRetriever,
	synthesizer *ResponseSynthesizer,
	conversations ConversationRepository,
	bus EventBus.Bus,
	timeout time.Duration,
) *Pipeline {
	return &Pipeline{
		extractor:     extractor,
		retriever:     retriever,
		synthesizer:   synthesizer,
		conversations: conversations,
		bus:           bus,
		callTimeout:   timeout,
	}
}

// NewDefaultPipeline builds the production pipeline on a model client
// and a gorm handle.
func NewDefaultPipeline(model ModelClient, db *gorm.DB, bus EventBus.Bus, cfg config.AssistantConfig) *Pipeline {
	timeout := cfg.CallTimeout()
	return NewPipeline(
		NewTermExtractor(model),
		NewCandidateRetriever(db, cfg.MaxCandidates),
		NewResponseSynthesizer(model),
		NewGormConversationRepository(db),
		bus,
		timeout,
	)
}

// Answer runs the full pipeline and always returns a safe reply.
// Every run writes exactly one conversation row, whichever branch
// produced the reply.
func (p *Pipeline) Answer(ctx context.Context, message string) string {
	started := time.Now()
	metrics.IncrCounter(metrics.ChatRequests, 1)

	reply, branch := p.run(ctx, message)
	p.logConversation(message, reply)

	metrics.IncrCounter(branchCounter(branch), 1)
	metrics.SetGauge(metrics.ChatLatencyMs, time.Since(started).Milliseconds())
	if p.bus != nil {
		p.bus.Publish(TopicChatCompleted, string(branch))
	}
	return reply
}

func (p *Pipeline) run(ctx context.Context, message string) (string, Branch) {
	ectx, cancel := callTimeout(ctx, p.callTimeout)
	terms, err := p.extractor.Extract(ectx, message)
	cancel()
	if err != nil {
		return p.fallback(message, err)
	}
	if len(terms) == 0 {
		return ReplyNoTerms, BranchNoTerms
	}
	zap.L().Debug("search terms extracted", zap.Strings("terms", terms))

	candidates, err := p.retriever.Retrieve(ctx, terms)
	if err != nil {
		return p.fallback(message, err)
	}

	sctx, cancel := callTimeout(ctx, p.callTimeout)
	reply, err := p.synthesizer.Synthesize(sctx, message, candidates)
	cancel()
	if err != nil {
		return p.fallback(message, err)
	}

	if len(candidates) == 0 {
		return reply, BranchNoCandidates
	}
	return reply, BranchAnswered
}

func (p *Pipeline) fallback(message string, err error) (string, Branch) {
	zap.L().Error("chat pipeline stage failed",
		zap.String("stage", string(FailedStage(err))),
		zap.String("message", message),
		zap.Error(err))
	return ReplyFallback, BranchFallback
}

// logConversation writes the audit row on a detached context so a
// client disconnect cannot lose it. A write failure is reported on the
// ops topic and never alters the already computed reply.
func (p *Pipeline) logConversation(userMessage, botResponse string) {
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := p.conversations.Create(ctx, userMessage, botResponse); err != nil {
		metrics.IncrCounter(metrics.ConversationLost, 1)
		zap.L().Error("conversation audit write failed", zap.Error(err))
		if p.bus != nil {
			p.bus.Publish(TopicAuditWriteFailed, err.Error())
		}
		return
	}
	metrics.IncrCounter(metrics.ConversationSaved, 1)
}

func branchCounter(branch Branch) string {
	switch branch {
	case BranchNoTerms:
		return metrics.ChatNoTerms
	case BranchNoCandidates:
		return metrics.ChatNoCandidates
	case BranchAnswered:
		return metrics.ChatAnswered
	default:
		return metrics.ChatFallback
	}
}
