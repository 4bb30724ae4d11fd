package services

import (
	"context"
	"sync"
	"textcompare-api/internal/config"
	"textcompare-api/internal/models"
	apierrors "textcompare-api/internal/pkg/errors"
	"textcompare-api/internal/repository"
)

// QuotaService is the quota ledger: the only mutable shared state in the
// gateway. All mutations to one credential's balance go through a
// per-credential lock on top of a conditional UPDATE, so two concurrent
// debits can never both observe the same sufficient balance.
type QuotaService interface {
	// TryDebit atomically charges cost tokens. The debit is admitted only when
	// the pre-debit balance covers the cost and sits at or above the low-water
	// mark; otherwise the balance is left untouched and ErrQuotaExhausted is
	// returned. Returns the remaining balance after a committed debit.
	TryDebit(ctx context.Context, key string, cost int) (int, error)

	// Refund returns a previously debited cost to the balance. Only used when
	// the refund-on-provider-failure policy is enabled.
	Refund(ctx context.Context, key string, cost int) error

	// CheckFloor reports whether the key is currently eligible for billable
	// work without charging anything.
	CheckFloor(ctx context.Context, key string) error

	Balance(ctx context.Context, key string) (*models.APIKey, error)

	RefundOnProviderFailure() bool
}

type quotaService struct {
	apiKeyRepo repository.APIKeyRepository
	cfg        *config.QuotaConfig

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewQuotaService(apiKeyRepo repository.APIKeyRepository, cfg *config.QuotaConfig) QuotaService {
	return &quotaService{
		apiKeyRepo: apiKeyRepo,
		cfg:        cfg,
		locks:      make(map[string]*sync.Mutex),
	}
}

// lockFor serializes all in-process mutations of one credential's balance.
// The storage-level conditional UPDATE already prevents overdraft; the lock
// keeps the check-then-read sequence coherent under concurrent callers.
func (s *quotaService) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[key]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *quotaService) TryDebit(ctx context.Context, key string, cost int) (int, error) {
	if cost <= 0 {
		return 0, apierrors.ErrInvalidInput
	}

	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	return s.apiKeyRepo.ConditionalDebit(ctx, key, cost, s.cfg.LowWaterMark)
}

func (s *quotaService) Refund(ctx context.Context, key string, cost int) error {
	if cost <= 0 {
		return apierrors.ErrInvalidInput
	}

	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	return s.apiKeyRepo.Credit(ctx, key, cost, nil)
}

func (s *quotaService) CheckFloor(ctx context.Context, key string) error {
	apiKey, err := s.apiKeyRepo.GetByKey(ctx, key)
	if err != nil {
		return err
	}

	if apiKey.TokensRemaining < s.cfg.LowWaterMark || apiKey.TokensRemaining < 1 {
		return apierrors.ErrQuotaExhausted
	}

	return nil
}

func (s *quotaService) Balance(ctx context.Context, key string) (*models.APIKey, error) {
	return s.apiKeyRepo.GetByKey(ctx, key)
}

func (s *quotaService) RefundOnProviderFailure() bool {
	return s.cfg.RefundOnProviderFailure
}
