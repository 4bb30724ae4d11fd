package services

import (
	"context"
	"encoding/json"
	"textcompare-api/internal/llm"
	"textcompare-api/internal/logger"
	"textcompare-api/internal/models"
	"textcompare-api/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// compareCost is the token cost of one comparison call.
const compareCost = 1

const typeConfigCacheTTL = 15 * time.Minute

// ComparisonService composes the subscription gate, the quota ledger, and the
// provider dispatcher into the end-to-end comparison flow.
type ComparisonService interface {
	// UploadReference stores a reference text owned by the calling key. The
	// operation is gated like a comparison but costs no tokens.
	UploadReference(ctx context.Context, claims *Claims, text string) (uuid.UUID, error)

	// Compare runs one comparison against a previously uploaded reference.
	// Quota is debited before the provider call and, under the default
	// charge-on-attempt policy, is not refunded when the provider fails.
	Compare(ctx context.Context, claims *Claims, referenceID uuid.UUID, candidateText string) (*llm.SimilarityReport, error)
}

type comparisonService struct {
	apiKeyRepo          repository.APIKeyRepository
	typeConfigRepo      repository.TypeConfigRepository
	textRepo            repository.TextRepository
	subscriptionService SubscriptionService
	quotaService        QuotaService
	usageService        UsageService
	cacheService        CacheService
	dispatcher          *llm.Dispatcher
}

func NewComparisonService(
	apiKeyRepo repository.APIKeyRepository,
	typeConfigRepo repository.TypeConfigRepository,
	textRepo repository.TextRepository,
	subscriptionService SubscriptionService,
	quotaService QuotaService,
	usageService UsageService,
	cacheService CacheService,
	dispatcher *llm.Dispatcher,
) ComparisonService {
	return &comparisonService{
		apiKeyRepo:          apiKeyRepo,
		typeConfigRepo:      typeConfigRepo,
		textRepo:            textRepo,
		subscriptionService: subscriptionService,
		quotaService:        quotaService,
		usageService:        usageService,
		cacheService:        cacheService,
		dispatcher:          dispatcher,
	}
}

func (s *comparisonService) UploadReference(ctx context.Context, claims *Claims, text string) (uuid.UUID, error) {
	credential, err := s.apiKeyRepo.GetByKey(ctx, claims.APIKey)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.subscriptionService.Gate(ctx, credential.ID); err != nil {
		return uuid.Nil, err
	}

	if err := s.quotaService.CheckFloor(ctx, credential.Key); err != nil {
		return uuid.Nil, err
	}

	reference := &models.ReferenceText{
		APIKeyID: credential.ID,
		Content:  text,
	}
	if err := s.textRepo.Create(ctx, reference); err != nil {
		return uuid.Nil, err
	}

	s.usageService.RecordOperation(credential.Key, "reference.upload", 201, "reference text stored")

	return reference.ID, nil
}

func (s *comparisonService) Compare(ctx context.Context, claims *Claims, referenceID uuid.UUID, candidateText string) (*llm.SimilarityReport, error) {
	credential, err := s.apiKeyRepo.GetByKey(ctx, claims.APIKey)
	if err != nil {
		return nil, err
	}

	// The gate is re-checked on every billable call: a subscription may lapse
	// between token issuance and token use.
	if err := s.subscriptionService.Gate(ctx, credential.ID); err != nil {
		return nil, err
	}

	reference, err := s.textRepo.GetByIDForKey(ctx, referenceID, credential.ID)
	if err != nil {
		return nil, err
	}

	remaining, err := s.quotaService.TryDebit(ctx, credential.Key, compareCost)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.resolveTypeConfig(ctx, credential.TypeConfigID)
	if err != nil {
		return nil, err
	}

	report, err := s.dispatcher.Compare(ctx, snapshot.Provider, llm.CompareRequest{
		SystemPrompt:  snapshot.SystemPrompt,
		UserPrompt:    snapshot.UserPrompt,
		ReferenceText: reference.Content,
		CandidateText: candidateText,
		Model:         snapshot.Model,
		APIKey:        credential.LLMAPIKey,
	})
	if err != nil {
		if s.quotaService.RefundOnProviderFailure() {
			if refundErr := s.quotaService.Refund(ctx, credential.Key, compareCost); refundErr != nil {
				logger.Logger.WithFields(logrus.Fields{
					"error":   refundErr,
					"api_key": credential.Key,
				}).Error("Failed to refund quota after provider failure")
			}
		}
		s.usageService.RecordOperation(credential.Key, "compare", 502, err.Error())
		return nil, err
	}

	s.usageService.RecordOperation(credential.Key, "compare", 200, "comparison completed")

	logger.Logger.WithFields(logrus.Fields{
		"api_key":   credential.Key,
		"provider":  report.Provider,
		"remaining": remaining,
	}).Info("Comparison completed")

	return report, nil
}

// resolveTypeConfig takes the read-only snapshot used for the rest of the
// call. The cache fronts the repository; a miss falls through silently.
func (s *comparisonService) resolveTypeConfig(ctx context.Context, id uuid.UUID) (*models.TypeConfig, error) {
	cacheKey := "typeconfig:" + id.String()

	if s.cacheService != nil {
		if cached, err := s.cacheService.Get(ctx, cacheKey); err == nil {
			var cfg models.TypeConfig
			if err := json.Unmarshal([]byte(cached), &cfg); err == nil {
				return &cfg, nil
			}
		}
	}

	cfg, err := s.typeConfigRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, cfg, typeConfigCacheTTL); err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"error": err,
				"id":    id,
			}).Warn("Failed to cache type config")
		}
	}

	return cfg, nil
}
