package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 12 * time.Hour

// Service authenticates the single operator configured for this deployment.
// Credentials come from config (username + bcrypt hash), not a user table.
type Service struct {
	secret       []byte
	operator     string
	passwordHash string
}

type Claims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

func NewService(secret, operator, passwordHash string) *Service {
	return &Service{
		secret:       []byte(secret),
		operator:     operator,
		passwordHash: passwordHash,
	}
}

func (s *Service) Login(req LoginRequest) (TokenResponse, error) {
	if req.Username != s.operator {
		return TokenResponse{}, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		return TokenResponse{}, errors.New("invalid credentials")
	}

	token, err := s.signToken(req.Username, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.Operator, nil
}

func (s *Service) signToken(operator string, ttl time.Duration) (string, error) {
	claims := Claims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

// HashPassword produces the bcrypt hash expected in OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
