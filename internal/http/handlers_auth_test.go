package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmelnyk/contacts-api/internal/auth"
	"github.com/vmelnyk/contacts-api/internal/data"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
	"github.com/vmelnyk/contacts-api/internal/service"
)

func TestRegister_Created(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Users.EXPECT().FindByEmail(gomock.Any(), "alice@example.com").Return(nil, data.ErrUserNotFound)
	env.Users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(nil, data.ErrUserNotFound)
	env.Users.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req model.CreateUserRequest, hashed string, avatar *string) (*model.User, error) {
			return &model.User{ID: 1, Username: req.Username, Email: req.Email, HashedPassword: hashed, Avatar: avatar}, nil
		})

	body := `{"username":"alice","email":"alice@example.com","password":"s3cret"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := env.do(r)

	require.Equal(t, http.StatusCreated, w.Code)
	user := decodeBody[model.User](t, w)
	require.Equal(t, "alice", user.Username)

	// The digest never appears in a response body.
	require.NotContains(t, w.Body.String(), "hashed_password")
}

func TestRegister_Conflict(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Users.EXPECT().
		FindByEmail(gomock.Any(), "alice@example.com").
		Return(&model.User{ID: 2, Email: "alice@example.com"}, nil)

	body := `{"username":"alice","email":"alice@example.com","password":"s3cret"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := env.do(r)

	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "User with such email already exists", detailOf(t, w))
}

func TestRegister_MalformedJSON(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{oops"))
	w := env.do(r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func loginRequest(username, password string) *http.Request {
	form := url.Values{"username": {username}, "password": {password}}
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	hashed, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	env.Users.EXPECT().
		FindByUsername(gomock.Any(), "alice").
		Return(&model.User{ID: 1, Username: "alice", HashedPassword: hashed, Confirmed: true}, nil)

	w := env.do(loginRequest("alice", "s3cret"))

	require.Equal(t, http.StatusOK, w.Code)
	token := decodeBody[service.TokenResult](t, w)
	require.Equal(t, "bearer", token.TokenType)

	subject, err := env.Tokens.VerifySessionToken(token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Users.EXPECT().
		FindByUsername(gomock.Any(), "ghost").
		Return(nil, data.ErrUserNotFound)

	w := env.do(loginRequest("ghost", "s3cret"))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Incorrect login or password", detailOf(t, w))
}

func TestLogin_UnconfirmedEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	hashed, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	env.Users.EXPECT().
		FindByUsername(gomock.Any(), "alice").
		Return(&model.User{ID: 1, Username: "alice", HashedPassword: hashed}, nil)

	w := env.do(loginRequest("alice", "s3cret"))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Email address not confirmed", detailOf(t, w))
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(loginRequest("alice", ""))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestConfirmEmail_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	token, err := env.Tokens.IssueConfirmationToken("alice@example.com")
	require.NoError(t, err)

	env.Users.EXPECT().
		FindByEmail(gomock.Any(), "alice@example.com").
		Return(&model.User{ID: 1, Email: "alice@example.com"}, nil)
	env.Users.EXPECT().
		ConfirmEmail(gomock.Any(), "alice@example.com").
		Return(nil)

	r := httptest.NewRequest(http.MethodGet, "/auth/confirmed_email/"+token, nil)
	w := env.do(r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Email confirmed", decodeBody[map[string]string](t, w)["message"])
}

func TestConfirmEmail_BadToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	r := httptest.NewRequest(http.MethodGet, "/auth/confirmed_email/garbage", nil)
	w := env.do(r)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "Invalid email verification token", detailOf(t, w))
}

func TestConfirmEmail_UnknownAccount(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	token, err := env.Tokens.IssueConfirmationToken("ghost@example.com")
	require.NoError(t, err)

	env.Users.EXPECT().
		FindByEmail(gomock.Any(), "ghost@example.com").
		Return(nil, data.ErrUserNotFound)

	r := httptest.NewRequest(http.MethodGet, "/auth/confirmed_email/"+token, nil)
	w := env.do(r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Verification error", detailOf(t, w))
}

func TestRequestEmail_AlwaysOK(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Users.EXPECT().
		FindByEmail(gomock.Any(), "ghost@example.com").
		Return(nil, data.ErrUserNotFound)

	r := httptest.NewRequest(http.MethodPost, "/auth/request_email", strings.NewReader(`{"email":"ghost@example.com"}`))
	w := env.do(r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Check your email for confirmation.", decodeBody[map[string]string](t, w)["message"])
}
