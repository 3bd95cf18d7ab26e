package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/response"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newProtectedRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := stubValidator{
		"admin":   {UserID: "admin-1", Role: models.RoleAdmin},
		"teacher": {UserID: "teacher-1", Role: models.RoleTeacher},
		"student": {UserID: "student-1", Role: models.RoleStudent},
	}
	r := gin.New()
	r.GET("/", JWT(tokens), guard, func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UserID)
	})
	return r
}

func call(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}

func TestJWTRequiresBearerToken(t *testing.T) {
	r := newProtectedRouter(Staff())

	w := call(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))

	assert.Equal(t, http.StatusUnauthorized, call(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer unknown").Code)

	w = call(r, "bearer teacher")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "teacher-1", w.Body.String())
}

func TestRoleGuards(t *testing.T) {
	staff := newProtectedRouter(Staff())
	assert.Equal(t, http.StatusOK, call(staff, "Bearer admin").Code)
	assert.Equal(t, http.StatusOK, call(staff, "Bearer teacher").Code)
	w := call(staff, "Bearer student")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))

	admins := newProtectedRouter(Administrators())
	assert.Equal(t, http.StatusOK, call(admins, "Bearer admin").Code)
	assert.Equal(t, http.StatusForbidden, call(admins, "Bearer teacher").Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, call(r, "").Code)
}
