package common

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

const (
	// DeviceCookieName は端末 ID トークンを保持する Cookie 名。
	DeviceCookieName = "rw_device"
	deviceTokenTTL   = 180 * 24 * time.Hour
	deviceIssuer     = "review-wall"
)

type contextKey string

const deviceContextKey contextKey = "deviceID"

var errInvalidDeviceToken = errors.New("invalid device token")

// ContextWithDevice stores the device id into context.
func ContextWithDevice(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceContextKey, deviceID)
}

// DeviceFromContext extracts the device id from context.
func DeviceFromContext(ctx context.Context) (string, bool) {
	deviceID, ok := ctx.Value(deviceContextKey).(string)
	return deviceID, ok && deviceID != ""
}

// DeviceTokens は端末 ID を HS256 署名付き JWT として Cookie に保持する。
// 初回アクセスで ID を払い出し、以後は同じ ID を維持する。
type DeviceTokens struct {
	secret []byte
	secure bool
	logger *zap.Logger
	now    func() time.Time
}

// NewDeviceTokens はトークン発行/検証器を生成する。
func NewDeviceTokens(secret []byte, secure bool, logger *zap.Logger) *DeviceTokens {
	return &DeviceTokens{secret: secret, secure: secure, logger: logger, now: time.Now}
}

// Sign は端末 ID を issuedAt 時点で署名したトークン文字列を返す。
func (d *DeviceTokens) Sign(deviceID string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    deviceIssuer,
		Subject:   deviceID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(deviceTokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
}

// Parse は署名・発行者・有効期限を検証し、端末 ID と発行時刻を返す。
func (d *DeviceTokens) Parse(raw string) (string, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return d.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(deviceIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(d.now),
	)
	if err != nil {
		return "", time.Time{}, err
	}
	if !token.Valid || !domain.ValidDeviceID(claims.Subject) || claims.IssuedAt == nil {
		return "", time.Time{}, errInvalidDeviceToken
	}
	return claims.Subject, claims.IssuedAt.Time, nil
}

// Middleware は Cookie から端末 ID を復元してコンテキストへ詰める。
// 無い/不正な場合は新しい ID を払い出し、有効期間の半分を過ぎたトークンは再発行する。
func (d *DeviceTokens) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := d.now()
		deviceID, issuedAt, ok := d.fromRequest(r)
		if !ok {
			deviceID = domain.GenerateDeviceID(now)
		}
		if !ok || now.Sub(issuedAt) > deviceTokenTTL/2 {
			if err := d.issue(w, deviceID, now); err != nil {
				d.logger.Error("端末トークンの発行に失敗", zap.Error(err))
				WriteError(d.logger, w, http.StatusInternalServerError, "failed to issue device identity")
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(ContextWithDevice(r.Context(), deviceID)))
	})
}

func (d *DeviceTokens) fromRequest(r *http.Request) (string, time.Time, bool) {
	cookie, err := r.Cookie(DeviceCookieName)
	if err != nil || cookie.Value == "" {
		return "", time.Time{}, false
	}
	deviceID, issuedAt, err := d.Parse(cookie.Value)
	if err != nil {
		d.logger.Debug("端末トークンを破棄して再発行します", zap.Error(err))
		return "", time.Time{}, false
	}
	return deviceID, issuedAt, true
}

func (d *DeviceTokens) issue(w http.ResponseWriter, deviceID string, now time.Time) error {
	value, err := d.Sign(deviceID, now.UTC())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     DeviceCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   d.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(deviceTokenTTL / time.Second),
	})
	return nil
}
