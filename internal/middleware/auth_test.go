package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkgov-crm/config"
	"parkgov-crm/internal/authz"
	"parkgov-crm/internal/workflow"
	"parkgov-crm/models"
)

var testSecret = []byte("test-secret")

type stubUsers struct {
	users map[uint]*models.User
}

func (s *stubUsers) UserByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	return u, nil
}

func signToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(userID),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func newAuthRouter(users UserSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", AuthMiddleware(testSecret, users), func(c *gin.Context) {
		actor, ok := Actor(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no actor"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"login": actor.Login, "role": string(actor.Role), "park": actor.ParkName})
	})
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_RejectsMissingOrBadTokens(t *testing.T) {
	r := newAuthRouter(&stubUsers{users: map[uint]*models.User{}})

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer not-a-token").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Basic abc").Code)
}

func TestAuthMiddleware_ResolvesActor(t *testing.T) {
	users := &stubUsers{users: map[uint]*models.User{
		7: {Login: "j.mukamana", Role: authz.RoleFinance, ParkName: "Akagera"},
	}}
	users.users[7].ID = 7
	r := newAuthRouter(users)

	w := doGet(r, "Bearer "+signToken(t, 7))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"finance"`)
	assert.Contains(t, w.Body.String(), `"park":"Akagera"`)
}

func TestAuthMiddleware_UnknownUserOrRole(t *testing.T) {
	users := &stubUsers{users: map[uint]*models.User{
		9: {Login: "ghost", Role: "superuser"},
	}}
	users.users[9].ID = 9
	r := newAuthRouter(users)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+signToken(t, 1)).Code)
	// Account exists but carries a role outside the closed set.
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+signToken(t, 9)).Code)
}

func TestAuthMiddleware_CachesResolvedAccount(t *testing.T) {
	mr := miniredis.RunT(t)
	config.RDB = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { config.RDB = nil }()

	users := &stubUsers{users: map[uint]*models.User{
		4: {Login: "a.uwase", Role: authz.RoleGovernment},
	}}
	users.users[4].ID = 4
	r := newAuthRouter(users)

	token := "Bearer " + signToken(t, 4)
	require.Equal(t, http.StatusOK, doGet(r, token).Code)
	assert.True(t, mr.Exists("user:4:data"))

	// Second request is served from the cache: the user source can vanish.
	delete(users.users, 4)
	w := doGet(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"government"`)
}
