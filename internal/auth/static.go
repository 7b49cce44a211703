package auth

import (
	"context"
	"fmt"
)

// StaticToken is a caller-owned token. It is never refreshed or expired
// locally; the caller replaces the client when the token goes stale.
type StaticToken struct {
	token string
}

func NewStaticToken(token string) *StaticToken {
	return &StaticToken{token: token}
}

func (s *StaticToken) GetToken(context.Context) (string, error) {
	if s.token == "" {
		return "", fmt.Errorf("%w: no access token supplied", ErrAuthentication)
	}
	return s.token, nil
}

func (s *StaticToken) RefreshToken(context.Context) error {
	return ErrRefreshUnsupported
}

func (s *StaticToken) CanRefresh() bool {
	return false
}

func (s *StaticToken) Status() Status {
	return Status{HasToken: s.token != ""}
}
