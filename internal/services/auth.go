package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/platform/ctxutil"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrInvalidBotKey = errors.New("invalid bot key")
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type TokenExchange struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int       `json:"expires_in"`
	UserID      uuid.UUID `json:"user_id"`
}

// AuthService turns a bot-issued login token into an access token and
// authenticates bot calls.
type AuthService interface {
	// ExchangeToken fails with CodeNotFound unless a paid user owns authToken.
	ExchangeToken(ctx context.Context, authToken string) (*TokenExchange, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	VerifyBotKey(key string) error
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
	botKeyHash   []byte
	now          func() time.Time
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTTL time.Duration, botKeyHash string) AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		botKeyHash:   []byte(strings.TrimSpace(botKeyHash)),
		now:          time.Now,
	}
}

func (as *authService) ExchangeToken(ctx context.Context, authToken string) (*TokenExchange, error) {
	const op = "Auth.ExchangeToken"
	token, err := uuid.Parse(strings.TrimSpace(authToken))
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "malformed token", err)
	}
	user, err := as.userRepo.GetByAuthToken(dbctx.Context{Ctx: ctx}, token)
	if err != nil {
		return nil, fmt.Errorf("lookup auth token: %w", err)
	}
	// Unpaid users get the same answer as unknown tokens.
	if user == nil || !user.IsPaid {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "no paid user for token", nil)
	}
	access, err := as.generateAccessToken(user.ID)
	if err != nil {
		as.log.Error("sign access token failed", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &TokenExchange{
		AccessToken: access,
		ExpiresIn:   int(as.accessTTL.Seconds()),
		UserID:      user.ID,
	}, nil
}

func (as *authService) generateAccessToken(userID uuid.UUID) (string, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

// VerifyBotKey compares key against the configured bcrypt hash. With no hash
// configured every key is rejected.
func (as *authService) VerifyBotKey(key string) error {
	if len(as.botKeyHash) == 0 || key == "" {
		return ErrInvalidBotKey
	}
	if err := bcrypt.CompareHashAndPassword(as.botKeyHash, []byte(key)); err != nil {
		return ErrInvalidBotKey
	}
	return nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
