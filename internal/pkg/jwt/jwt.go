package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidClaims = errors.New("token claims are missing or invalid")

type Service interface {
	GenerateAccessToken(userID string, employeeID *string, roles []user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
	// PruneRevoked forgets revoked tokens that can no longer pass
	// verification and returns how many were dropped.
	PruneRevoked(now time.Time) int
}

const acceptableSkew = 30 * time.Second

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(acceptableSkew)),
		revokedTokens:             make(map[string]int64),
	}
}

func (j *JWTService) GenerateAccessToken(userID string, employeeID *string, roles []user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	roleNames := make([]string, len(roles))
	for i, r := range roles {
		roleNames[i] = string(r)
	}

	claims := map[string]interface{}{
		"user_id":     userID,
		"employee_id": returnValueOrNil(employeeID),
		"roles":       roleNames,
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = time.Now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

func (j *JWTService) PruneRevoked(now time.Time) int {
	lifetime, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return 0
	}
	cutoff := now.Add(-(lifetime + acceptableSkew)).Unix()

	j.mu.Lock()
	defer j.mu.Unlock()

	pruned := 0
	for token, revokedAt := range j.revokedTokens {
		if revokedAt < cutoff {
			delete(j.revokedTokens, token)
			pruned++
		}
	}
	return pruned
}

// ActorFromClaims builds the acting identity from decoded access token claims.
func ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return user.Actor{}, ErrInvalidClaims
	}

	// Audit columns store the user as a UUID.
	userID, ok := claims["user_id"].(string)
	if !ok {
		return user.Actor{}, ErrInvalidClaims
	}
	if _, err := uuid.Parse(userID); err != nil {
		return user.Actor{}, ErrInvalidClaims
	}

	actor := user.Actor{UserID: userID}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		actor.EmployeeID = &employeeID
	}

	// Decoded JSON arrays arrive as []interface{}.
	switch raw := claims["roles"].(type) {
	case []string:
		for _, r := range raw {
			actor.Roles = append(actor.Roles, user.Role(r))
		}
	case []interface{}:
		for _, v := range raw {
			if s, ok := v.(string); ok {
				actor.Roles = append(actor.Roles, user.Role(s))
			}
		}
	}
	for _, r := range actor.Roles {
		if !r.IsValid() {
			return user.Actor{}, ErrInvalidClaims
		}
	}
	if len(actor.Roles) == 0 {
		return user.Actor{}, ErrInvalidClaims
	}

	return actor, nil
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
