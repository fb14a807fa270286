package middleware

import (
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/magicscuts/errors"
	"github.com/johnquangdev/magicscuts/pkg/jwt"
)

func TestEchoAuth(t *testing.T) {
	manager := jwt.NewManager("secret", time.Minute, "magicscuts")
	userID := uuid.New()
	valid, err := manager.GenerateAccessToken(userID, "a@example.com", "user", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	expired, err := jwt.NewManager("secret", -time.Minute, "magicscuts").GenerateAccessToken(userID, "", "", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	tests := []struct {
		name     string
		header   string
		cookie   string
		wantCode errors.ErrorCode
		wantOK   bool
	}{
		{name: "bearer header", header: "Bearer " + valid, wantOK: true},
		{name: "lowercase scheme", header: "bearer " + valid, wantOK: true},
		{name: "cookie", cookie: valid, wantOK: true},
		{name: "missing", wantCode: errors.ErrorCode_UNAUTHENTICATED},
		{name: "garbage", header: "Bearer nope", wantCode: errors.ErrorCode_AUTH_INVALID_TOKEN},
		{name: "expired", header: "Bearer " + expired, wantCode: errors.ErrorCode_AUTH_TOKEN_EXPIRED},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			c := e.NewContext(req, httptest.NewRecorder())

			var got uuid.UUID
			err := EchoAuth(manager)(func(c echo.Context) error {
				got, _ = c.Get(UserIDKey).(uuid.UUID)
				return nil
			})(c)

			if tt.wantOK {
				if err != nil || got != userID {
					t.Fatalf("expected user %s, got %s (err %v)", userID, got, err)
				}
				return
			}
			var appErr errors.AppError
			if !stdErrors.As(err, &appErr) || appErr.Code != tt.wantCode {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}
