package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"donorlink/config"
	"donorlink/infras/jwt"
	jwtMocks "donorlink/infras/jwt/mocks"
	"donorlink/infras/otel/mocks"
	"donorlink/permissions"
	"donorlink/shared/constant"
	"donorlink/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const internalKey = "internal-key"

func newGuardedRouter(t *testing.T) (*chi.Mux, *jwtMocks.MockJWT, *mocks.Recorder) {
	t.Helper()

	ctrl := gomock.NewController(t)
	tokens := jwtMocks.NewMockJWT(ctrl)

	cfg := &config.Config{}
	cfg.App.APIKey = internalKey

	table := permissions.Get()
	require.NotNil(t, table)

	recorder := mocks.NewRecorder()
	authRole := middleware.NewAuthRoleMiddleware(tokens, recorder, table, cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	}

	mux := chi.NewRouter()
	mux.Route("/v1", func(r chi.Router) {
		r.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
		r.Route("/needs", func(r chi.Router) {
			r.Post("/", ok)
			r.Get("/{id}", ok)
		})
	})

	return mux, tokens, recorder
}

func claimsFor(subject, role string) *jwt.Claims {
	return &jwt.Claims{Role: role, RegisteredClaims: gojwt.RegisteredClaims{Subject: subject}}
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		header   map[string]string
		mock     func(tokens *jwtMocks.MockJWT)
		wantCode int
		wantRole string
	}{
		{
			name:     "missing header",
			method:   http.MethodPost,
			path:     "/v1/needs/",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed header",
			method:   http.MethodPost,
			path:     "/v1/needs/",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			method: http.MethodPost,
			path:   "/v1/needs/",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer expired"},
			mock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "expired").Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "donor cannot open a need",
			method: http.MethodPost,
			path:   "/v1/needs/",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer donor"},
			mock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "donor").Return(claimsFor("d-1", constant.RoleDonor), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "staff opens a need",
			method: http.MethodPost,
			path:   "/v1/needs/",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer staff"},
			mock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "staff").Return(claimsFor("s-1", constant.RoleStaff), nil)
			},
			wantCode: http.StatusOK,
			wantRole: constant.RoleStaff,
		},
		{
			name:   "admin opens a need",
			method: http.MethodPost,
			path:   "/v1/needs/",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer admin"},
			mock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "admin").Return(claimsFor("a-1", constant.RoleAdmin), nil)
			},
			wantCode: http.StatusOK,
			wantRole: constant.RoleAdmin,
		},
		{
			name:   "unknown role is rejected",
			method: http.MethodGet,
			path:   "/v1/needs/n-1",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer root"},
			mock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "root").Return(claimsFor("r-1", "superuser"), nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "missing role claim defaults to donor",
			method: http.MethodGet,
			path:   "/v1/needs/n-1",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer plain"},
			mock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "plain").Return(claimsFor("d-2", ""), nil)
			},
			wantCode: http.StatusOK,
			wantRole: constant.RoleDonor,
		},
		{
			name:     "wrong api key",
			method:   http.MethodPost,
			path:     "/v1/needs/",
			header:   map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "api key bypasses bearer auth",
			method:   http.MethodPost,
			path:     "/v1/needs/",
			header:   map[string]string{constant.RequestHeaderAPIKey: internalKey},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, tokens, recorder := newGuardedRouter(t)
			if tt.mock != nil {
				tt.mock(tokens)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.header {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRole, rec.Header().Get("X-Role"))
			assert.Equal(t, tt.wantCode != http.StatusOK, len(recorder.Errors()) > 0)
			assert.Contains(t, recorder.Spans(), "api_key.middleware")
		})
	}
}
