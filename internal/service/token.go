package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmarchuk/auth-service/internal/models"
	"github.com/dmarchuk/auth-service/internal/repo"
	"github.com/dmarchuk/auth-service/pkg/tokens"
)

// TokenService owns the token lifecycle: issue, verify against the
// blocklist, rotate and revoke.
type TokenService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (t *TokenService) secretFor(typ string) []byte {
	if typ == tokens.TypeRefresh {
		return t.RefreshSecret
	}
	return t.JWTSecret
}

func (t *TokenService) ttlFor(typ string) time.Duration {
	if typ == tokens.TypeRefresh {
		return t.RefreshTTL
	}
	return t.AccessTTL
}

func (t *TokenService) Issue(identity string, typ string, isStaff bool) (string, error) {
	return tokens.Sign(identity, typ, isStaff, t.ttlFor(typ), t.secretFor(typ))
}

func (t *TokenService) IssuePair(user *models.User) (access, refresh string, err error) {
	access, err = t.Issue(user.Username, tokens.TypeAccess, user.IsStaff())
	if err != nil {
		return "", "", err
	}
	refresh, err = t.Issue(user.Username, tokens.TypeRefresh, user.IsStaff())
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify checks signature, expiry, type and the blocklist, in that
// order. A well-formed unexpired token still fails with ErrRevoked once
// its jti has been blocklisted.
func (t *TokenService) Verify(ctx context.Context, raw, expectedType string) (*tokens.Claims, error) {
	claims, err := tokens.Parse(raw, expectedType, t.secretFor(expectedType))
	if err != nil {
		return nil, err
	}

	revoked, err := t.Repo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("blocklist lookup: %w", err)
	}
	if revoked {
		return nil, tokens.ErrRevoked
	}
	return claims, nil
}

// VerifyAny accepts either token variant; logout revokes whatever the
// caller presents. Access is tried first since it is the common case.
func (t *TokenService) VerifyAny(ctx context.Context, raw string) (*tokens.Claims, error) {
	claims, err := t.Verify(ctx, raw, tokens.TypeAccess)
	if err == nil || errors.Is(err, tokens.ErrExpired) || errors.Is(err, tokens.ErrRevoked) {
		return claims, err
	}
	return t.Verify(ctx, raw, tokens.TypeRefresh)
}

func (t *TokenService) Revoke(ctx context.Context, jti string) error {
	return t.Repo.AddRevoked(ctx, jti)
}

// Rotate implements single-use refresh tokens: the old refresh jti is
// blocklisted before a new pair is issued, so a replayed refresh token
// fails with ErrRevoked.
func (t *TokenService) Rotate(ctx context.Context, oldRefresh string) (access, refresh string, err error) {
	claims, err := t.Verify(ctx, oldRefresh, tokens.TypeRefresh)
	if err != nil {
		return "", "", err
	}

	if err := t.Revoke(ctx, claims.ID); err != nil {
		return "", "", fmt.Errorf("revoke old refresh: %w", err)
	}

	access, err = t.Issue(claims.Subject, tokens.TypeAccess, claims.IsStaff)
	if err != nil {
		return "", "", err
	}
	refresh, err = t.Issue(claims.Subject, tokens.TypeRefresh, claims.IsStaff)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
