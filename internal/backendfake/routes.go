package backendfake

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
	"golang.org/x/crypto/bcrypt"
)

// Route path constants, mounted under /api like the real backend
const (
	RouteAPI      = "/api"
	RouteAuthBase = RouteAPI + "/auth"
)

func (b *Backend) routes() *mux.Router {
	r := mux.NewRouter()

	auth := r.PathPrefix(RouteAuthBase).Subrouter()
	auth.HandleFunc("/login", b.handleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", b.handleRefresh).Methods(http.MethodPost)
	auth.HandleFunc("/verify", b.handleVerify).Methods(http.MethodPost)

	api := r.PathPrefix(RouteAPI).Subrouter()
	api.HandleFunc("/health/", b.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/ping/", b.handlePing).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(b.requireBearer)
	protected.HandleFunc("/vendors/", b.handleListVendors).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/", b.handleCreateVendor).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{id:[0-9]+}", b.handleGetVendor).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{id:[0-9]+}", b.handleUpdateVendor).Methods(http.MethodPatch)
	protected.HandleFunc("/vendors/{id:[0-9]+}", b.handleDeleteVendor).Methods(http.MethodDelete)
	protected.HandleFunc("/products/", b.handleListProducts).Methods(http.MethodGet)
	protected.HandleFunc("/products/", b.handleCreateProduct).Methods(http.MethodPost)
	protected.HandleFunc("/products/{id:[0-9]+}", b.handleGetProduct).Methods(http.MethodGet)
	protected.HandleFunc("/products/{id:[0-9]+}", b.handleUpdateProduct).Methods(http.MethodPatch)
	protected.HandleFunc("/products/{id:[0-9]+}", b.handleDeleteProduct).Methods(http.MethodDelete)

	return r
}

type userKey struct{}

func (b *Backend) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "detail", "Not authenticated")
			return
		}
		user, valid := b.validAccessToken(token)
		if !valid {
			writeError(w, http.StatusUnauthorized, "detail", "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func (b *Backend) validAccessToken(token string) (authapi.User, bool) {
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return b.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(NowTimeFunc))
	if err != nil || !parsed.Valid {
		return authapi.User{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	user, ok := b.accessTokens[token]
	return user, ok
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	if b.LoginStatus != 0 {
		writeError(w, b.LoginStatus, "error", http.StatusText(b.LoginStatus))
		return
	}

	var req authapi.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "error", "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	record, ok := b.users[strings.ToLower(req.Email)]
	if !ok || bcrypt.CompareHashAndPassword(record.passwordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusBadRequest, "error", "Invalid credentials")
		return
	}

	access, refresh := b.issueTokensLocked(record.user)
	writeJSON(w, http.StatusOK, authapi.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(AccessTokenTTL.Seconds()),
		User:         record.user,
	})
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if b.RefreshStatus != 0 {
		writeError(w, b.RefreshStatus, "error", http.StatusText(b.RefreshStatus))
		return
	}

	var req authapi.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "error", "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	stored, ok := b.refreshTokens.lookup(req.RefreshToken)
	if !ok {
		writeError(w, http.StatusUnauthorized, "error", "Invalid refresh token")
		return
	}
	// Refresh tokens are not rotated
	access := b.signAccessLocked(stored.User)

	writeJSON(w, http.StatusOK, authapi.RefreshResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int(AccessTokenTTL.Seconds()),
	})
}

func (b *Backend) handleVerify(w http.ResponseWriter, r *http.Request) {
	if b.VerifyStatus != 0 {
		writeError(w, b.VerifyStatus, "error", http.StatusText(b.VerifyStatus))
		return
	}

	var req authapi.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "error", "Invalid request body")
		return
	}

	user, valid := b.validAccessToken(req.Token)
	if !valid {
		writeError(w, http.StatusUnauthorized, "error", "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, authapi.VerifyResponse{
		Valid: true,
		User:  user,
		Payload: authapi.TokenPayload{
			Sub:    user.Email,
			UserID: user.ID,
			Source: "password",
		},
	})
}

func (b *Backend) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, marketplace.Health{App: "b2bmarket", Status: marketplace.StatusHealthy, Database: "ok"})
}

func (b *Backend) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, marketplace.Ping{Status: "pong"})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
