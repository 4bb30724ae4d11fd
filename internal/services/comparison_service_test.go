package services

import (
	"context"
	"errors"
	"testing"
	"textcompare-api/internal/config"
	"textcompare-api/internal/llm"
	"textcompare-api/internal/models"
	apierrors "textcompare-api/internal/pkg/errors"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type comparisonFixture struct {
	svc     ComparisonService
	keyRepo *fakeAPIKeyRepo
	textID  uuid.UUID
	usage   *fakeUsageService
	claims  *Claims
}

func newComparisonFixture(t *testing.T, balance int, provider models.Provider, adapter llm.Adapter, refund bool) *comparisonFixture {
	t.Helper()

	cfg := &models.TypeConfig{
		ID:           uuid.New(),
		Scale:        "0-100",
		SystemPrompt: "Compare against: ",
		UserPrompt:   "Candidate: ",
		Model:        "test-model",
		Provider:     provider,
	}

	credential := &models.APIKey{
		ID:              uuid.New(),
		Key:             "key-1",
		SecretKey:       "secret-1",
		TypeConfigID:    cfg.ID,
		LLMAPIKey:       "upstream-key",
		TokensRemaining: balance,
		TokenLimit:      balance,
		Status:          models.APIKeyActive,
	}

	end := time.Now().Add(30 * 24 * time.Hour)
	subscription := &models.Subscription{
		APIKeyID:  credential.ID,
		PlanType:  models.ProPlan,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   &end,
		Status:    "active",
	}

	text := &models.ReferenceText{
		ID:       uuid.New(),
		APIKeyID: credential.ID,
		Content:  "the reference text",
	}

	keyRepo := newFakeAPIKeyRepo(credential)
	usage := &fakeUsageService{}

	adapters := map[models.Provider]llm.Adapter{}
	if adapter != nil {
		adapters[provider] = adapter
	}
	dispatcher := llm.NewDispatcherWithAdapters(adapters, 100*time.Millisecond)

	svc := NewComparisonService(
		keyRepo,
		newFakeTypeConfigRepo(cfg),
		newFakeTextRepo(text),
		NewSubscriptionService(newFakeSubscriptionRepo(subscription)),
		NewQuotaService(keyRepo, &config.QuotaConfig{LowWaterMark: 0, RefundOnProviderFailure: refund}),
		usage,
		nil,
		dispatcher,
	)

	return &comparisonFixture{
		svc:     svc,
		keyRepo: keyRepo,
		textID:  text.ID,
		usage:   usage,
		claims:  &Claims{APIKey: "key-1", Username: "alice"},
	}
}

func TestCompareSuccessDebitsOneToken(t *testing.T) {
	fx := newComparisonFixture(t, 10, models.ProviderMock, &llm.MockAdapter{Report: "85% similar"}, false)

	report, err := fx.svc.Compare(context.Background(), fx.claims, fx.textID, "candidate")
	require.NoError(t, err)
	assert.Equal(t, "85% similar", report.Report)
	assert.Equal(t, "mock", report.Provider)
	assert.Equal(t, 9, fx.keyRepo.balance("key-1"))
}

// A credential holding exactly one token gets exactly one comparison.
func TestCompareExhaustsLastToken(t *testing.T) {
	fx := newComparisonFixture(t, 1, models.ProviderMock, &llm.MockAdapter{}, false)

	_, err := fx.svc.Compare(context.Background(), fx.claims, fx.textID, "candidate")
	require.NoError(t, err)
	assert.Equal(t, 0, fx.keyRepo.balance("key-1"))

	_, err = fx.svc.Compare(context.Background(), fx.claims, fx.textID, "candidate")
	assert.ErrorIs(t, err, apierrors.ErrQuotaExhausted)
	assert.Equal(t, 0, fx.keyRepo.balance("key-1"))
}

// An unknown provider still costs a token: the charge is for attempted work.
func TestCompareUnsupportedProviderStillCharges(t *testing.T) {
	fx := newComparisonFixture(t, 10, models.Provider("unsupported-x"), nil, false)

	_, err := fx.svc.Compare(context.Background(), fx.claims, fx.textID, "candidate")
	assert.ErrorIs(t, err, apierrors.ErrUnsupportedProvider)
	assert.Equal(t, 9, fx.keyRepo.balance("key-1"))
}

func TestCompareProviderFailureKeepsChargeByDefault(t *testing.T) {
	fx := newComparisonFixture(t, 10, models.ProviderMock, &llm.MockAdapter{Err: errors.New("backend exploded")}, false)

	_, err := fx.svc.Compare(context.Background(), fx.claims, fx.textID, "candidate")
	var providerErr *apierrors.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, 9, fx.keyRepo.balance("key-1"))
}

func TestCompareProviderFailureRefundsWhenConfigured(t *testing.T) {
	fx := newComparisonFixture(t, 10, models.ProviderMock, &llm.MockAdapter{Err: errors.New("backend exploded")}, true)

	_, err := fx.svc.Compare(context.Background(), fx.claims, fx.textID, "candidate")
	require.Error(t, err)
	assert.Equal(t, 10, fx.keyRepo.balance("key-1"))
}

func TestCompareProviderTimeoutClassified(t *testing.T) {
	fx := newComparisonFixture(t, 10, models.ProviderMock, &llm.MockAdapter{Delay: time.Second}, false)

	_, err := fx.svc.Compare(context.Background(), fx.claims, fx.textID, "candidate")
	assert.ErrorIs(t, err, apierrors.ErrProviderTimeout)
	assert.Equal(t, 9, fx.keyRepo.balance("key-1"))
}

func TestCompareExpiredSubscriptionDoesNotDebit(t *testing.T) {
	fx := newComparisonFixture(t, 10, models.ProviderMock, &llm.MockAdapter{}, false)

	// Lapse the subscription after issuance by moving the gate's clock past
	// the end date.
	subSvc := fx.svc.(*comparisonService).subscriptionService.(*subscriptionService)
	subSvc.now = func() time.Time { return time.Now().Add(60 * 24 * time.Hour) }

	_, err := fx.svc.Compare(context.Background(), fx.claims, fx.textID, "candidate")
	assert.ErrorIs(t, err, apierrors.ErrSubscriptionExpired)
	assert.Equal(t, 10, fx.keyRepo.balance("key-1"))
}

func TestCompareMissingReferenceDoesNotDebit(t *testing.T) {
	fx := newComparisonFixture(t, 10, models.ProviderMock, &llm.MockAdapter{}, false)

	_, err := fx.svc.Compare(context.Background(), fx.claims, uuid.New(), "candidate")
	assert.ErrorIs(t, err, apierrors.ErrTextNotFound)
	assert.Equal(t, 10, fx.keyRepo.balance("key-1"))
}

func TestCompareUnknownCredential(t *testing.T) {
	fx := newComparisonFixture(t, 10, models.ProviderMock, &llm.MockAdapter{}, false)

	_, err := fx.svc.Compare(context.Background(), &Claims{APIKey: "missing"}, fx.textID, "candidate")
	assert.ErrorIs(t, err, apierrors.ErrCredentialNotFound)
}

func TestUploadReferenceGatedButFree(t *testing.T) {
	fx := newComparisonFixture(t, 10, models.ProviderMock, &llm.MockAdapter{}, false)

	id, err := fx.svc.UploadReference(context.Background(), fx.claims, "new reference")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, 10, fx.keyRepo.balance("key-1"), "upload must not cost tokens")

	// The stored text is immediately comparable.
	_, err = fx.svc.Compare(context.Background(), fx.claims, id, "candidate")
	assert.NoError(t, err)
}

func TestCompareRecordsUsage(t *testing.T) {
	fx := newComparisonFixture(t, 10, models.ProviderMock, &llm.MockAdapter{}, false)

	_, err := fx.svc.Compare(context.Background(), fx.claims, fx.textID, "candidate")
	require.NoError(t, err)

	require.Len(t, fx.usage.ops, 1)
	assert.Equal(t, "compare", fx.usage.ops[0].action)
	assert.Equal(t, 200, fx.usage.ops[0].statusCode)
}
