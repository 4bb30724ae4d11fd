package services

import (
	"context"
	"sync"
	"textcompare-api/internal/models"
	apierrors "textcompare-api/internal/pkg/errors"
	"textcompare-api/internal/repository"
	"time"

	"github.com/google/uuid"
)

// fakeAPIKeyRepo emulates the storage-layer semantics of the real repository,
// including the atomic conditional debit.
type fakeAPIKeyRepo struct {
	mu   sync.Mutex
	keys map[string]*models.APIKey
}

func newFakeAPIKeyRepo(keys ...*models.APIKey) *fakeAPIKeyRepo {
	repo := &fakeAPIKeyRepo{keys: make(map[string]*models.APIKey)}
	for _, k := range keys {
		if k.ID == uuid.Nil {
			k.ID = uuid.New()
		}
		repo.keys[k.Key] = k
	}
	return repo
}

func (r *fakeAPIKeyRepo) Create(ctx context.Context, apiKey *models.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if apiKey.ID == uuid.Nil {
		apiKey.ID = uuid.New()
	}
	r.keys[apiKey.Key] = apiKey
	return nil
}

func (r *fakeAPIKeyRepo) GetByKey(ctx context.Context, key string) (*models.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[key]
	if !ok {
		return nil, apierrors.ErrCredentialNotFound
	}
	copied := *k
	return &copied, nil
}

func (r *fakeAPIKeyRepo) Deactivate(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[key]
	if !ok {
		return apierrors.ErrCredentialNotFound
	}
	k.Status = models.APIKeyInactive
	return nil
}

func (r *fakeAPIKeyRepo) ConditionalDebit(ctx context.Context, key string, cost, lowWaterMark int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[key]
	if !ok || k.Status != models.APIKeyActive {
		return 0, apierrors.ErrCredentialNotFound
	}
	if k.TokensRemaining < cost || k.TokensRemaining < lowWaterMark {
		return k.TokensRemaining, apierrors.ErrQuotaExhausted
	}
	k.TokensRemaining -= cost
	return k.TokensRemaining, nil
}

func (r *fakeAPIKeyRepo) Credit(ctx context.Context, key string, tokens int, newLimit *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[key]
	if !ok {
		return apierrors.ErrCredentialNotFound
	}
	if newLimit != nil {
		k.TokenLimit = *newLimit
	}
	k.TokensRemaining += tokens
	if k.TokensRemaining > k.TokenLimit {
		k.TokensRemaining = k.TokenLimit
	}
	return nil
}

func (r *fakeAPIKeyRepo) balance(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[key].TokensRemaining
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*models.Subscription
}

func newFakeSubscriptionRepo(subs ...*models.Subscription) *fakeSubscriptionRepo {
	repo := &fakeSubscriptionRepo{subs: make(map[uuid.UUID]*models.Subscription)}
	for _, s := range subs {
		repo.subs[s.APIKeyID] = s
	}
	return repo
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, s *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[s.APIKeyID] = s
	return nil
}

func (r *fakeSubscriptionRepo) GetByAPIKeyID(ctx context.Context, apiKeyID uuid.UUID) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[apiKeyID]
	if !ok {
		return nil, repository.ErrSubscriptionNotFound
	}
	return s, nil
}

func (r *fakeSubscriptionRepo) Renew(ctx context.Context, apiKeyID uuid.UUID, planType models.SubscriptionPlan, endDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[apiKeyID]
	if !ok {
		return repository.ErrSubscriptionNotFound
	}
	s.PlanType = planType
	s.EndDate = &endDate
	s.Status = "active"
	return nil
}

type fakeTypeConfigRepo struct {
	configs map[uuid.UUID]*models.TypeConfig
}

func newFakeTypeConfigRepo(configs ...*models.TypeConfig) *fakeTypeConfigRepo {
	repo := &fakeTypeConfigRepo{configs: make(map[uuid.UUID]*models.TypeConfig)}
	for _, c := range configs {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		repo.configs[c.ID] = c
	}
	return repo
}

func (r *fakeTypeConfigRepo) Create(ctx context.Context, cfg *models.TypeConfig) error {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	r.configs[cfg.ID] = cfg
	return nil
}

func (r *fakeTypeConfigRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TypeConfig, error) {
	cfg, ok := r.configs[id]
	if !ok {
		return nil, apierrors.ErrNotFound
	}
	return cfg, nil
}

func (r *fakeTypeConfigRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.configs, id)
	return nil
}

type fakeTextRepo struct {
	texts map[uuid.UUID]*models.ReferenceText
}

func newFakeTextRepo(texts ...*models.ReferenceText) *fakeTextRepo {
	repo := &fakeTextRepo{texts: make(map[uuid.UUID]*models.ReferenceText)}
	for _, t := range texts {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		repo.texts[t.ID] = t
	}
	return repo
}

func (r *fakeTextRepo) Create(ctx context.Context, text *models.ReferenceText) error {
	if text.ID == uuid.Nil {
		text.ID = uuid.New()
	}
	r.texts[text.ID] = text
	return nil
}

func (r *fakeTextRepo) GetByIDForKey(ctx context.Context, id, apiKeyID uuid.UUID) (*models.ReferenceText, error) {
	t, ok := r.texts[id]
	if !ok || t.APIKeyID != apiKeyID {
		return nil, apierrors.ErrTextNotFound
	}
	return t, nil
}

type recordedOp struct {
	apiKey     string
	action     string
	statusCode int
}

type fakeUsageService struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (s *fakeUsageService) RecordOperation(apiKeyID, action string, statusCode int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, recordedOp{apiKey: apiKeyID, action: action, statusCode: statusCode})
}

func (s *fakeUsageService) GetCurrentUsage(apiKeyID string) (*UsageStats, error) {
	return &UsageStats{}, nil
}
