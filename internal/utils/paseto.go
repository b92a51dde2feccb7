package utils

import (
	"encoding/hex"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const (
	tokenAudience = "neolist"
	tokenIssuer   = "neolist-api"
)

// PasetoMaker erstellt und prüft lokale PASETO-Tokens der Version 4 (symmetrisch).
type PasetoMaker struct {
	symmetricKey paseto.V4SymmetricKey
}

func NewPasetoMaker(keyHex string) (*PasetoMaker, error) {
	key, err := paseto.V4SymmetricKeyFromHex(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid symmetric key: %w", err)
	}

	return &PasetoMaker{symmetricKey: key}, nil
}

// GenerateSymmetricKey wird nur verwendet, wenn kein HEX_KEY konfiguriert ist.
func GenerateSymmetricKey() string {
	key := paseto.NewV4SymmetricKey()
	return hex.EncodeToString(key.ExportBytes())
}

type TokenClaims struct {
	UserID    string
	Email     string
	Role      string
	SessionID string
	ExpiresAt time.Time
}

func (m *PasetoMaker) CreateToken(claims TokenClaims, duration time.Duration) (string, error) {
	now := time.Now()
	token := paseto.NewToken()

	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(duration))
	token.SetAudience(tokenAudience)
	token.SetIssuer(tokenIssuer)
	token.SetSubject(claims.UserID)
	token.SetJti(claims.SessionID)

	token.SetString("email", claims.Email)
	token.SetString("role", claims.Role)

	return token.V4Encrypt(m.symmetricKey, nil), nil
}

func (m *PasetoMaker) VerifyToken(tokenString string) (*TokenClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(time.Now()))

	parsed, err := parser.ParseV4Local(m.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("token decryption/verification failed: %w", err)
	}

	var claims TokenClaims
	if claims.UserID, err = parsed.GetSubject(); err != nil {
		return nil, err
	}
	if claims.SessionID, err = parsed.GetJti(); err != nil {
		return nil, err
	}
	if claims.Email, err = parsed.GetString("email"); err != nil {
		return nil, err
	}
	if claims.Role, err = parsed.GetString("role"); err != nil {
		return nil, err
	}
	if claims.ExpiresAt, err = parsed.GetExpiration(); err != nil {
		return nil, err
	}

	return &claims, nil
}
