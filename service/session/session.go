package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lending/core"

	"github.com/asaskevich/govalidator"
	"github.com/bluele/gcache"
	"github.com/golang-jwt/jwt"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidToken access token rejected
var ErrInvalidToken = errors.New("invalid access token")

// New new session verifying HS256 tokens signed with secret
func New(secret string, capacity int) core.Session {
	s := &session{
		key: []byte(secret),
		sf:  &singleflight.Group{},
	}

	if capacity > 0 {
		return &cacheSession{
			session: s,
			tokens:  gcache.New(capacity).LRU().Build(),
		}
	}

	return s
}

type session struct {
	key []byte
	sf  *singleflight.Group
}

type login struct {
	user    *core.User
	expires time.Time
}

func (s *session) Login(ctx context.Context, accessToken string) (*core.User, error) {
	l, err := s.login(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return l.user, nil
}

func (s *session) login(ctx context.Context, accessToken string) (*login, error) {
	v, err, _ := s.sf.Do(accessToken, func() (interface{}, error) {
		var claims jwt.StandardClaims
		if _, err := jwt.ParseWithClaims(accessToken, &claims, s.keyFunc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}

		if govalidator.IsNull(claims.Subject) {
			return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
		}

		l := &login{user: &core.User{ID: claims.Subject}}
		if claims.ExpiresAt > 0 {
			l.expires = time.Unix(claims.ExpiresAt, 0)
		}

		return l, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*login), nil
}

func (s *session) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}

	if len(s.key) == 0 {
		return nil, errors.New("auth secret not configured")
	}

	return s.key, nil
}

const maxCacheTTL = 10 * time.Minute

type cacheSession struct {
	*session
	tokens gcache.Cache
}

func (s *cacheSession) Login(ctx context.Context, accessToken string) (*core.User, error) {
	if v, err := s.tokens.Get(accessToken); err == nil {
		return v.(*core.User), nil
	}

	l, err := s.session.login(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	ttl := maxCacheTTL
	if !l.expires.IsZero() {
		if left := time.Until(l.expires); left < ttl {
			ttl = left
		}
	}

	if ttl > 0 {
		_ = s.tokens.SetWithExpire(accessToken, l.user, ttl)
	}

	return l.user, nil
}

// Sign issue an access token for userID, ttl <= 0 never expires
func Sign(secret, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("auth secret not configured")
	}

	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:  userID,
		IssuedAt: now.Unix(),
	}

	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
