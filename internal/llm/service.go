package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/adri1972/claritycash/internal/advisor"
	"github.com/adri1972/claritycash/internal/ledger"
)

const adviceTimeout = 30 * time.Second

// AdviceService ties the prompt builder, the provider client and the cache
// together. A nil client means no key was configured; every request then
// resolves to the NO_KEY fallback.
type AdviceService struct {
	store    *ledger.Store
	client   Client
	cache    *Cache
	provider string
	log      zerolog.Logger
}

func NewAdviceService(store *ledger.Store, client Client, cache *Cache, provider string, log zerolog.Logger) *AdviceService {
	return &AdviceService{store: store, client: client, cache: cache, provider: provider, log: log}
}

// AdviceResult carries the advice text and where it came from.
type AdviceResult struct {
	Text     string
	Cached   bool
	Fallback bool
	Kind     FailureKind
}

// MonthlyAdvice returns cached advice when fresh, otherwise asks the model.
// On any failure the result carries the per-kind fallback message along
// with the error; the caller always has something to show.
func (s *AdviceService) MonthlyAdvice(ctx context.Context, month time.Month, year int, force bool) (AdviceResult, error) {
	if !force {
		if text, ok := s.cache.Get(month, year, s.provider); ok {
			return AdviceResult{Text: text, Cached: true}, nil
		}
	}
	if s.client == nil {
		return AdviceResult{Text: FallbackMessage(FailNoKey), Fallback: true, Kind: FailNoKey}, &Error{Kind: FailNoKey}
	}

	ctx, cancel := context.WithTimeout(ctx, adviceTimeout)
	defer cancel()

	prompt := BuildAdvicePrompt(s.store, month, year)
	text, err := s.client.Generate(ctx, prompt)
	if err != nil {
		kind := KindOf(err)
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("advice request failed")
		return AdviceResult{Text: FallbackMessage(kind), Fallback: true, Kind: kind}, err
	}

	s.cache.Put(month, year, s.provider, text)
	return AdviceResult{Text: text}, nil
}

// ElaboratePlan expands an action plan's diagnosis through the model. When
// the plan doesn't ask for elaboration, or the call fails, the plan's own
// adjustments serve as the fallback text.
func (s *AdviceService) ElaboratePlan(ctx context.Context, plan advisor.ActionPlan) (AdviceResult, error) {
	if !plan.NeedsElaboration || s.client == nil {
		kind := FailureKind("")
		if plan.NeedsElaboration {
			kind = FailNoKey
		}
		return AdviceResult{Text: plan.Diagnosis, Fallback: true, Kind: kind}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, adviceTimeout)
	defer cancel()

	text, err := s.client.Generate(ctx, BuildElaborationPrompt(plan))
	if err != nil {
		kind := KindOf(err)
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("plan elaboration failed")
		return AdviceResult{Text: plan.Diagnosis, Fallback: true, Kind: kind}, err
	}
	return AdviceResult{Text: text}, nil
}
