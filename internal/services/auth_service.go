package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"textcompare-api/internal/config"
	"textcompare-api/internal/models"
	apierrors "textcompare-api/internal/pkg/errors"
	"textcompare-api/internal/repository"
	"time"

	"github.com/golang-jwt/jwt"
)

const tokenTTL = 24 * time.Hour

// Claims are the verified session-token assertions carried between requests.
type Claims struct {
	APIKey   string
	Username string
}

type AuthService interface {
	// Authorize runs the full /auth flow: signature check, subscription gate,
	// quota floor check, then mints a session token. A token is never issued
	// for an ineligible credential.
	Authorize(ctx context.Context, apiKey, username, signature string) (string, error)

	// VerifySignature checks the HMAC proof of secret possession and returns
	// the credential on success.
	VerifySignature(ctx context.Context, apiKey, signature, username string) (*models.APIKey, error)

	VerifyToken(tokenString string) (*Claims, error)
}

type authService struct {
	apiKeyRepo          repository.APIKeyRepository
	subscriptionService SubscriptionService
	quotaService        QuotaService
	signingKey          *config.SigningKey
	now                 func() time.Time
}

func NewAuthService(
	apiKeyRepo repository.APIKeyRepository,
	subscriptionService SubscriptionService,
	quotaService QuotaService,
	signingKey *config.SigningKey,
) AuthService {
	return &authService{
		apiKeyRepo:          apiKeyRepo,
		subscriptionService: subscriptionService,
		quotaService:        quotaService,
		signingKey:          signingKey,
		now:                 time.Now,
	}
}

func (s *authService) Authorize(ctx context.Context, apiKey, username, signature string) (string, error) {
	credential, err := s.VerifySignature(ctx, apiKey, signature, username)
	if err != nil {
		return "", err
	}

	if err := s.subscriptionService.Gate(ctx, credential.ID); err != nil {
		return "", err
	}

	if err := s.quotaService.CheckFloor(ctx, credential.Key); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"api_key":  credential.Key,
		"username": username,
		"exp":      s.now().Add(tokenTTL).Unix(),
	})

	return token.SignedString(s.signingKey.Current())
}

func (s *authService) VerifySignature(ctx context.Context, apiKey, signature, username string) (*models.APIKey, error) {
	credential, err := s.apiKeyRepo.GetByKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if credential.Status != models.APIKeyActive {
		return nil, apierrors.ErrCredentialNotFound
	}

	mac := hmac.New(sha256.New, []byte(credential.SecretKey))
	mac.Write([]byte(apiKey + "." + username))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, apierrors.ErrInvalidSignature
	}

	return credential, nil
}

func (s *authService) VerifyToken(tokenString string) (*Claims, error) {
	// A rotation keeps the previous key verifiable, so try candidates newest
	// first.
	for _, key := range s.signingKey.Candidates() {
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apierrors.ErrInvalidToken
			}
			return key, nil
		})

		if err != nil {
			if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
				return nil, apierrors.ErrTokenExpired
			}
			continue
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			continue
		}

		apiKey, _ := claims["api_key"].(string)
		username, _ := claims["username"].(string)
		if apiKey == "" {
			return nil, apierrors.ErrInvalidToken
		}

		return &Claims{APIKey: apiKey, Username: username}, nil
	}

	return nil, apierrors.ErrInvalidToken
}
