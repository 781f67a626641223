package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
)

// ErrNotOwned is returned when a customer requests a download for a game that
// is not in their library.
var ErrNotOwned = errors.New("game not owned")

// DownloadGrant is a short-lived authorization to download an owned game.
type DownloadGrant struct {
	Game      *models.Game `json:"game"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// DownloadService issues and redeems signed download tokens for owned games.
type DownloadService struct {
	userRepo repositories.UserRepository
	gameRepo repositories.GameRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewDownloadService creates a new DownloadService.
func NewDownloadService(userRepo repositories.UserRepository, gameRepo repositories.GameRepository, secret string) *DownloadService {
	return &DownloadService{
		userRepo: userRepo,
		gameRepo: gameRepo,
		secret:   []byte(secret),
		tokenTTL: 15 * time.Minute,
	}
}

// Authorize checks the game is in the customer's library and issues a signed
// token carrying the pair.
func (s *DownloadService) Authorize(ctx context.Context, customerID, gameID primitive.ObjectID) (*DownloadGrant, error) {
	user, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	owned := false
	for _, id := range user.Library {
		if id == gameID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, ErrNotOwned
	}

	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"game_id": gameID.Hex(),
		"user_id": customerID.Hex(),
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign download token: %w", err)
	}

	return &DownloadGrant{Game: game, Token: signed, ExpiresAt: expiresAt}, nil
}

// Redeem validates a download token and returns the game it grants.
func (s *DownloadService) Redeem(ctx context.Context, tokenString string) (*models.Game, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid download token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid download token")
	}

	gameHex, _ := claims["game_id"].(string)
	gameID, err := primitive.ObjectIDFromHex(gameHex)
	if err != nil {
		return nil, fmt.Errorf("invalid download token: bad game id")
	}
	return s.gameRepo.GetByID(ctx, gameID)
}
