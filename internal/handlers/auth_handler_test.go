package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"aviauth/backend/internal/auth"
)

func registerRouter() *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", RegisterHandler())
	return r
}

func loginRouter() *gin.Engine {
	r := gin.New()
	r.POST("/auth/login", LoginHandler())
	return r
}

func TestRegisterHandler_Success(t *testing.T) {
	router := registerRouter()
	email := "new@example.com"

	sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE email = $1`)).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users" ("id","username","email","password_hash","created_at","updated_at") VALUES ($1,$2,$3,$4,$5,$6)`)).
		WithArgs(sqlmock.AnyArg(), "newuser", email, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	rr := postJSON(router, "/auth/register", RegisterPayload{Username: "newuser", Email: email, Password: "abcdef"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "Account created")
	assert.NotContains(t, rr.Body.String(), "password_hash")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	router := registerRouter()
	email := "taken@example.com"

	sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE email = $1`)).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rr := postJSON(router, "/auth/register", RegisterPayload{Username: "dupe", Email: email, Password: "abcdef"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Email is already in use")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	router := registerRouter()

	rr := postJSON(router, "/auth/register", RegisterPayload{Username: "u", Email: "u@example.com", Password: "abc"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "at least 6 characters")
}

func TestLoginHandler_Success(t *testing.T) {
	router := loginRouter()
	email := "alice@example.com"
	password := "secret123"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	expectUserByEmail(email, userRows(testUserID, "alice", email, string(hashed)))

	rr := postJSON(router, "/auth/login", LoginPayload{Email: email, Password: password})

	assert.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Success bool            `json:"success"`
		Token   string          `json:"token"`
		User    ProfileResponse `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, email, response.User.Email)

	// The issued token resolves back to the same identity.
	claims, err := auth.ValidateToken(response.Token)
	assert.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	router := loginRouter()
	email := "alice@example.com"
	hashed, _ := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.DefaultCost)

	expectUserByEmail(email, userRows(testUserID, "alice", email, string(hashed)))

	rr := postJSON(router, "/auth/login", LoginPayload{Email: email, Password: "wrongpassword"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid email or password")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestLoginHandler_UnknownEmail(t *testing.T) {
	router := loginRouter()
	email := "ghost@example.com"

	expectUserByEmail(email, sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}))

	rr := postJSON(router, "/auth/login", LoginPayload{Email: email, Password: "whatever"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	// Same message as a wrong password to avoid account enumeration.
	assert.Contains(t, rr.Body.String(), "Invalid email or password")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
