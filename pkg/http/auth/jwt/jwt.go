package jwt

import (
	"errors"
	"time"

	"github.com/go-funnel/funnel/pkg/http"
	"github.com/go-funnel/funnel/pkg/log"
	"github.com/golang-jwt/jwt/v5"
)

// Token 类型，access 用于接口鉴权，refresh 仅用于换发新令牌
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	issUser = "funnel"

	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type AuthClaims struct {
	UserId    string `json:"userId"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// GenToken 生成 access_token 和 refresh_token
func GenToken(userId string, secretKey []byte, accessExpired, refreshExpired time.Duration) (aToken, rToken string, err error) {

	// aToken
	aClaims := &AuthClaims{
		UserId:    userId,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issUser,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessExpired)),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	aToken, aErr := jwt.NewWithClaims(jwt.SigningMethodHS256, aClaims).SignedString(secretKey)
	if aErr != nil {
		log.Errorf("jwt.NewWithClaims err: %v", aErr)
		return "", "", aErr
	}

	// rToken
	rClaims := &AuthClaims{
		UserId:    userId,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issUser,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(refreshExpired)),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	rToken, rErr := jwt.NewWithClaims(jwt.SigningMethodHS256, rClaims).SignedString(secretKey)
	if rErr != nil {
		log.Errorf("jwt.NewWithClaims err: %v", rErr)
		return "", "", rErr
	}

	return aToken, rToken, nil
}

func parseToken(token, secretKey, tokenType string) (*AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	authClaims, ok := parsed.Claims.(*AuthClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	// 校验令牌类型，refresh token 不能被用于接口鉴权，反之亦然
	if authClaims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return authClaims, nil
}

// ParseToken 校验 access_token
func ParseToken(aToken, secretKey string) (*AuthClaims, error) {
	return parseToken(aToken, secretKey, TokenTypeAccess)
}

// ParseRefreshToken 校验 refresh_token
func ParseRefreshToken(rToken, secretKey string) (*AuthClaims, error) {
	return parseToken(rToken, secretKey, TokenTypeRefresh)
}

// RefreshToken 用 refresh_token 换发新的令牌对
func RefreshToken(auth *http.Auth, rToken string) (string, map[string]string, error) {
	claims, err := ParseRefreshToken(rToken, auth.SecretKey)
	if err != nil {
		log.Errorf("parse refresh token err: %v", err)
		return "", nil, errors.New(http.InValidRefreshToken.Msg)
	}

	accessExpire := time.Duration(auth.AccessExpire) * time.Minute
	refreshExpire := time.Duration(auth.RefreshExpire) * time.Minute

	newAToken, newRToken, err := GenToken(claims.UserId, []byte(auth.SecretKey), accessExpire, refreshExpire)
	if err != nil {
		return "", nil, err
	}

	return claims.UserId, map[string]string{
		"accessToken":  newAToken,
		"refreshToken": newRToken,
	}, nil
}
