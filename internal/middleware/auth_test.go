package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/petvetapp/petvet-backend/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc123", ExtractBearerToken("Bearer abc123"))
	assert.Equal(t, "abc123", ExtractBearerToken("  Bearer abc123  "))
	assert.Equal(t, "", ExtractBearerToken(""))
	assert.Equal(t, "", ExtractBearerToken("abc123"))
	assert.Equal(t, "", ExtractBearerToken("Basic abc123"))
}

// Requests with missing or malformed tokens must be rejected before any store
// access, so these paths are testable without a database.
func TestProtectRejectsBadTokens(t *testing.T) {
	services.ConfigureTokens("test-secret", time.Hour)

	handler := Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for unauthenticated requests")
	}))

	cases := map[string]string{
		"no header":       "",
		"not bearer":      "Token abc",
		"garbage token":   "Bearer garbage",
		"wrong key":       "Bearer " + signedWithWrongKey(t),
		"non-hex subject": "Bearer " + issuedFor(t, "not-an-object-id"),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/pets", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Not authorized")
		})
	}
}

func issuedFor(t *testing.T, subject string) string {
	t.Helper()
	token, err := services.IssueToken(subject)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func signedWithWrongKey(t *testing.T) string {
	t.Helper()
	services.ConfigureTokens("other-secret", time.Hour)
	token := issuedFor(t, "64b0c1f2a3d4e5f60718293a")
	services.ConfigureTokens("test-secret", time.Hour)
	return token
}
