package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	"github.com/AlibekovAA/microblog/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/microblog/internal/common/crypto"
	"github.com/AlibekovAA/microblog/internal/common/jwtverify"
)

type TokenIssuer struct {
	jwtSecret      []byte
	idGenerator    commoncrypto.IDGenerator
	clock          clock.Clock
	accessTokenTTL time.Duration
}

func NewTokenIssuer(
	jwtSecret string,
	idGenerator commoncrypto.IDGenerator,
	accessTokenTTL time.Duration,
	clock clock.Clock,
) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret:      []byte(jwtSecret),
		idGenerator:    idGenerator,
		clock:          clock,
		accessTokenTTL: accessTokenTTL,
	}
}

// IssueAccessToken signs an HS256 token whose sub is the account id and usr
// the handle at issue time.
func (ti *TokenIssuer) IssueAccessToken(account accountdomain.Account) (string, time.Time, error) {
	jti, err := ti.idGenerator.NewID()
	if err != nil {
		return "", time.Time{}, err
	}

	now := ti.clock.Now()
	expiresAt := now.Add(ti.accessTokenTTL)
	claims := jwt.MapClaims{
		"sub": string(account.ID),
		"usr": account.Handle,
		"jti": jti,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	incrementAccessTokensIssued()
	return tokenString, expiresAt, nil
}

func (ti *TokenIssuer) ParseToken(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret)
}
