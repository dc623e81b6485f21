package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canteen-counter/internal/auth"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Preflight request",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectHandler:  false,
		},
		{
			name:           "GET request",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "POST request",
			method:         http.MethodPost,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := CORS(testHandler)

			req := httptest.NewRequest(tt.method, "/test", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestSession_AssignsCookie(t *testing.T) {
	var seenID string
	handler := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = SessionID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// The id handed to the handler must match the cookie sent back.
	require.NotEmpty(t, seenID)
	_, err := uuid.Parse(seenID)
	assert.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, seenID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSession_KeepsExistingCookie(t *testing.T) {
	var seenID string
	handler := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = SessionID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "existing-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, "existing-session", seenID)
	assert.Empty(t, w.Result().Cookies(), "no new cookie when one already exists")
}

func TestSessionID_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	assert.Empty(t, SessionID(req))
}

func TestStaffAuth(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	valid, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	forged, err := auth.NewTokenIssuer("other-secret", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name        string
		header      string
		expectStaff bool
	}{
		{"no header", "", false},
		{"valid bearer token", "Bearer " + valid, true},
		{"lowercase scheme", "bearer " + valid, true},
		{"wrong scheme", "Basic " + valid, false},
		{"forged token", "Bearer " + forged, false},
		{"garbage token", "Bearer not.a.token", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotStaff bool
			handlerCalled := false
			handler := StaffAuth(issuer, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				gotStaff = auth.HasStaffCapability(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			// Requests always reach the handler; the capability alone differs.
			assert.True(t, handlerCalled)
			assert.Equal(t, tt.expectStaff, gotStaff)
		})
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "internal server error"}`, w.Body.String())
}

func TestLogging_PassesThrough(t *testing.T) {
	handler := Logging(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
}
