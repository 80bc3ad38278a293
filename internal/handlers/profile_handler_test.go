package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// profileRouter injects an authenticated identity, standing in for
// auth.AuthMiddleware.
func profileRouter(userID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.GET("/api/v1/profile", GetProfileHandler())
	r.PUT("/api/v1/profile", UpdateProfileHandler())
	return r
}

func putJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPut, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func expectUserByID(userID uuid.UUID, rows *sqlmock.Rows) {
	sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs(userID, 1).
		WillReturnRows(rows)
}

func TestGetProfileHandler_Success(t *testing.T) {
	router := profileRouter(testUserID)
	expectUserByID(testUserID, userRows(testUserID, "alice", "alice@example.com", "hash"))

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Success bool            `json:"success"`
		User    ProfileResponse `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, testUserID, response.User.ID)
	assert.Equal(t, "alice", response.User.Username)
	assert.Equal(t, "alice@example.com", response.User.Email)
	assert.NotContains(t, rr.Body.String(), "password_hash")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestGetProfileHandler_NotFound(t *testing.T) {
	missingID := uuid.New()
	router := profileRouter(missingID)
	expectUserByID(missingID, sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}))

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "User not found")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUpdateProfileHandler_NothingToUpdate(t *testing.T) {
	router := profileRouter(testUserID)

	rr := putJSON(router, "/api/v1/profile", gin.H{})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Nothing to update")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUpdateProfileHandler_UsernameOnly(t *testing.T) {
	router := profileRouter(testUserID)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "username"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	rr := putJSON(router, "/api/v1/profile", gin.H{"username": "bob"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Profile updated")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUpdateProfileHandler_DuplicateEmail(t *testing.T) {
	router := profileRouter(testUserID)
	email := "taken@example.com"

	sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE email = $1 AND id <> $2`)).
		WithArgs(email, testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rr := putJSON(router, "/api/v1/profile", gin.H{"email": email})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Email is already in use")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

// Re-submitting the user's own current email is a no-op update that
// must succeed; the uniqueness check excludes the user's own row.
func TestUpdateProfileHandler_SameEmailNoOp(t *testing.T) {
	router := profileRouter(testUserID)
	email := "alice@example.com"

	sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE email = $1 AND id <> $2`)).
		WithArgs(email, testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "email"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(email, sqlmock.AnyArg(), testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	rr := putJSON(router, "/api/v1/profile", gin.H{"email": email})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Profile updated")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUpdateProfileHandler_InvalidEmail(t *testing.T) {
	router := profileRouter(testUserID)

	rr := putJSON(router, "/api/v1/profile", gin.H{"email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
