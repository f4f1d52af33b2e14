package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adri1972/claritycash/internal/advisor"
	"github.com/adri1972/claritycash/internal/database"
	"github.com/adri1972/claritycash/internal/ledger"
)

type stubClient struct {
	text  string
	err   error
	calls int
}

func (s *stubClient) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func newTestStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.NewStore(database.NewMemStore(), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestCachePutGet(t *testing.T) {
	t.Parallel()
	cache := NewCache(database.NewMemStore())

	_, ok := cache.Get(time.June, 2026, "gemini")
	require.False(t, ok)

	cache.Put(time.June, 2026, "gemini", "ahorra más")
	text, ok := cache.Get(time.June, 2026, "gemini")
	require.True(t, ok)
	require.Equal(t, "ahorra más", text)

	// keyed per provider and per month
	_, ok = cache.Get(time.June, 2026, "openai")
	require.False(t, ok)
	_, ok = cache.Get(time.July, 2026, "gemini")
	require.False(t, ok)
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	t.Parallel()
	cache := NewCache(database.NewMemStore())
	cache.Put(time.June, 2026, "gemini", "ahorra más")

	cache.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, ok := cache.Get(time.June, 2026, "gemini")
	require.False(t, ok)
}

func TestCacheIgnoresCorruptEntries(t *testing.T) {
	t.Parallel()
	db := database.NewMemStore()
	cache := NewCache(db)

	require.NoError(t, db.CachePut(cacheKey(time.June, 2026, "gemini"), []byte("{not json")))
	_, ok := cache.Get(time.June, 2026, "gemini")
	require.False(t, ok)
}

func TestClassifyAPIError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want FailureKind
	}{
		{errors.New("gemini: http 429: resource exhausted"), FailRateLimit},
		{errors.New("openai: http 401: invalid api key"), FailInvalidKey},
		{errors.New("openai: http 403: forbidden"), FailInvalidKey},
		{errors.New("dial tcp: lookup api failed"), FailNetworkError},
		{fmt.Errorf("request: %w", context.DeadlineExceeded), FailNetworkError},
		{errors.New("something else entirely"), FailAPIError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, classifyAPIError(tc.err).Kind, "err %v", tc.err)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	require.Equal(t, FailRateLimit, KindOf(&Error{Kind: FailRateLimit}))
	require.Equal(t, FailRateLimit, KindOf(fmt.Errorf("wrapped: %w", &Error{Kind: FailRateLimit})))
	require.Equal(t, FailNetworkError, KindOf(errors.New("plain")))
}

func TestFallbackMessageAlwaysAnswers(t *testing.T) {
	t.Parallel()
	kinds := []FailureKind{FailNoKey, FailInvalidKey, FailRateLimit, FailEmptyResponse, FailAPIError, FailNetworkError}
	for _, k := range kinds {
		require.NotEmpty(t, FallbackMessage(k))
	}
	require.Equal(t, FallbackMessage(FailNetworkError), FallbackMessage(FailureKind("weird")))
}

func TestNewOpenAI(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAI("  ", "gpt-4o-mini")
	require.Error(t, err)
	require.Equal(t, FailNoKey, KindOf(err))

	client, err := NewOpenAI("sk-test", "")
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", client.model)
}

func TestMonthlyAdviceWithoutClient(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	svc := NewAdviceService(store, nil, NewCache(database.NewMemStore()), "gemini", zerolog.Nop())

	res, err := svc.MonthlyAdvice(context.Background(), time.June, 2026, false)
	require.Error(t, err)
	require.Equal(t, FailNoKey, KindOf(err))
	require.True(t, res.Fallback)
	require.Equal(t, FallbackMessage(FailNoKey), res.Text)
}

func TestMonthlyAdviceCachesResponses(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	client := &stubClient{text: "consejo del mes"}
	svc := NewAdviceService(store, client, NewCache(database.NewMemStore()), "gemini", zerolog.Nop())

	res, err := svc.MonthlyAdvice(context.Background(), time.June, 2026, false)
	require.NoError(t, err)
	require.Equal(t, "consejo del mes", res.Text)
	require.False(t, res.Cached)
	require.Equal(t, 1, client.calls)

	res, err = svc.MonthlyAdvice(context.Background(), time.June, 2026, false)
	require.NoError(t, err)
	require.True(t, res.Cached)
	require.Equal(t, 1, client.calls)

	// force bypasses the cache
	_, err = svc.MonthlyAdvice(context.Background(), time.June, 2026, true)
	require.NoError(t, err)
	require.Equal(t, 2, client.calls)
}

func TestMonthlyAdviceFallsBackOnProviderError(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	client := &stubClient{err: &Error{Kind: FailRateLimit, Err: errors.New("http 429")}}
	svc := NewAdviceService(store, client, NewCache(database.NewMemStore()), "gemini", zerolog.Nop())

	res, err := svc.MonthlyAdvice(context.Background(), time.June, 2026, false)
	require.Error(t, err)
	require.True(t, res.Fallback)
	require.Equal(t, FailRateLimit, res.Kind)
	require.Equal(t, FallbackMessage(FailRateLimit), res.Text)
}

func TestElaboratePlan(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	plan := advisor.ActionPlan{
		Status:           advisor.StatusCritical,
		Priority:         "DÉFICIT DE $500.000",
		Diagnosis:        "Tu déficit proviene de Ocio.",
		NeedsElaboration: true,
	}

	// nil client keeps the local diagnosis
	svc := NewAdviceService(store, nil, NewCache(database.NewMemStore()), "gemini", zerolog.Nop())
	res, err := svc.ElaboratePlan(context.Background(), plan)
	require.NoError(t, err)
	require.True(t, res.Fallback)
	require.Equal(t, plan.Diagnosis, res.Text)
	require.Equal(t, FailNoKey, res.Kind)

	// plans that don't ask for elaboration never hit the model
	client := &stubClient{text: "estrategia"}
	svc = NewAdviceService(store, client, NewCache(database.NewMemStore()), "gemini", zerolog.Nop())
	res, err = svc.ElaboratePlan(context.Background(), advisor.ActionPlan{Status: advisor.StatusOK, Diagnosis: "todo bien"})
	require.NoError(t, err)
	require.Equal(t, "todo bien", res.Text)
	require.Zero(t, client.calls)

	res, err = svc.ElaboratePlan(context.Background(), plan)
	require.NoError(t, err)
	require.Equal(t, "estrategia", res.Text)
	require.False(t, res.Fallback)
}

func TestBuildAdvicePrompt(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	store.AddTransaction(ledger.TransactionDraft{
		Type: ledger.TypeIngreso, Amount: 3000000, Date: "2026-06-01",
		AccountID: ledger.AccountPrincipal, CategoryID: ledger.CatSalario, Note: "Nómina",
	})
	store.AddTransaction(ledger.TransactionDraft{
		Type: ledger.TypeGasto, Amount: 800000, Date: "2026-06-10",
		AccountID: ledger.AccountPrincipal, CategoryID: ledger.CatVivienda, Note: "Arriendo",
	})
	store.AddGoal(ledger.Goal{Type: ledger.GoalEmergency, Name: "Fondo de emergencia", TargetAmount: 10000000})

	prompt := BuildAdvicePrompt(store, time.June, 2026)
	require.Contains(t, prompt, "JUNIO 2026")
	require.Contains(t, prompt, "$3.000.000")
	require.Contains(t, prompt, "Vivienda: $800.000")
	require.Contains(t, prompt, "Fondo de emergencia")
	require.Contains(t, prompt, "MES ANTERIOR (Mayo 2026)")
}

func TestBuildElaborationPromptShiftsPersona(t *testing.T) {
	t.Parallel()

	critical := BuildElaborationPrompt(advisor.ActionPlan{Status: advisor.StatusCritical, Priority: "DÉFICIT", Adjustments: []string{"recorta"}})
	require.Contains(t, critical, "Crisis")
	require.Contains(t, critical, "- recorta")

	ok := BuildElaborationPrompt(advisor.ActionPlan{Status: advisor.StatusOK})
	require.Contains(t, ok, "Patrimonio")
}