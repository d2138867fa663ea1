package jwt

import (
    "errors"
    "time"

    jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims 携带调用方的数字用户ID
type Claims struct {
    UserID int64 `json:"user_id"`
    jwtlib.RegisteredClaims
}

type Manager struct {
    secret []byte
    expire time.Duration
}

func NewManager(secret string, expire time.Duration) *Manager {
    return &Manager{secret: []byte(secret), expire: expire}
}

// Generate 签发携带用户ID的 token
func (m *Manager) Generate(userID int64) (string, error) {
    now := time.Now()
    claims := Claims{
        UserID: userID,
        RegisteredClaims: jwtlib.RegisteredClaims{
            IssuedAt:  jwtlib.NewNumericDate(now),
            ExpiresAt: jwtlib.NewNumericDate(now.Add(m.expire)),
        },
    }
    return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse 校验并取出用户ID
func (m *Manager) Parse(tokenStr string) (int64, error) {
    token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return m.secret, nil
    })
    if err != nil {
        return 0, err
    }
    claims, ok := token.Claims.(*Claims)
    if !ok || !token.Valid {
        return 0, ErrInvalidToken
    }
    return claims.UserID, nil
}
