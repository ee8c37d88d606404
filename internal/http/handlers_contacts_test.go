package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmelnyk/contacts-api/internal/data"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
)

func testContact() *model.Contact {
	return &model.Contact{
		ID:        3,
		Name:      "Bob",
		Surname:   "Stone",
		Email:     "bob@example.com",
		Phone:     "+380501112233",
		BirthDate: time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC),
		UserID:    7,
	}
}

func TestContacts_Create(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Contacts.EXPECT().
		Create(gomock.Any(), int64(7), gomock.Any()).
		Return(testContact(), nil)

	body := `{"name":"Bob","surname":"Stone","email":"bob@example.com","phone":"+380501112233","birth_date":"1990-03-14T00:00:00Z"}`
	r := httptest.NewRequest(http.MethodPost, "/contacts/", strings.NewReader(body))
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, int64(3), decodeBody[model.Contact](t, w).ID)
}

func TestContacts_Create_InvalidBody(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	// Missing phone fails service validation.
	body := `{"name":"Bob","surname":"Stone","email":"bob@example.com","birth_date":"1990-03-14T00:00:00Z"}`
	r := httptest.NewRequest(http.MethodPost, "/contacts/", strings.NewReader(body))
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestContacts_List_Filters(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Contacts.EXPECT().
		List(gomock.Any(), int64(7), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, opts model.ContactListOptions) ([]*model.Contact, error) {
			require.NotNil(t, opts.Name)
			require.Equal(t, "Bob", *opts.Name)
			require.Nil(t, opts.Surname)
			require.Equal(t, 25, opts.Limit)
			require.Equal(t, 50, opts.Offset)
			return []*model.Contact{testContact()}, nil
		})

	r := httptest.NewRequest(http.MethodGet, "/contacts/?name=Bob&limit=25&skip=50", nil)
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody[[]model.Contact](t, w), 1)
}

func TestContacts_List_SkipPaginates(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Contacts.EXPECT().
		List(gomock.Any(), int64(7), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, opts model.ContactListOptions) ([]*model.Contact, error) {
			require.Equal(t, 2, opts.Limit)
			require.Equal(t, 5, opts.Offset)
			return nil, nil
		})

	r := httptest.NewRequest(http.MethodGet, "/contacts/?skip=5&limit=2", nil)
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestContacts_List_ClampsLimit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Contacts.EXPECT().
		List(gomock.Any(), int64(7), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, opts model.ContactListOptions) ([]*model.Contact, error) {
			require.Equal(t, 100, opts.Limit)
			return nil, nil
		})

	r := httptest.NewRequest(http.MethodGet, "/contacts/?limit=5000", nil)
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestContacts_Get_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Contacts.EXPECT().
		GetByID(gomock.Any(), int64(7), int64(99)).
		Return(nil, data.ErrContactNotFound)

	r := httptest.NewRequest(http.MethodGet, "/contacts/99", nil)
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Not found", detailOf(t, w))
}

func TestContacts_Get_NonNumericID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	r := httptest.NewRequest(http.MethodGet, "/contacts/abc", nil)
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestContacts_Update_Partial(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Contacts.EXPECT().
		Update(gomock.Any(), int64(7), int64(3), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ int64, req model.UpdateContactRequest) (*model.Contact, error) {
			require.NotNil(t, req.Phone)
			require.Equal(t, "+380509998877", *req.Phone)
			require.Nil(t, req.Name)
			updated := testContact()
			updated.Phone = *req.Phone
			return updated, nil
		})

	r := httptest.NewRequest(http.MethodPatch, "/contacts/3", strings.NewReader(`{"phone":"+380509998877"}`))
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "+380509998877", decodeBody[model.Contact](t, w).Phone)
}

func TestContacts_Delete(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Contacts.EXPECT().
		Delete(gomock.Any(), int64(7), int64(3)).
		Return(true, nil)

	r := httptest.NewRequest(http.MethodDelete, "/contacts/3", nil)
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.String())
}

func TestContacts_Delete_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Contacts.EXPECT().
		Delete(gomock.Any(), int64(7), int64(99)).
		Return(false, nil)

	r := httptest.NewRequest(http.MethodDelete, "/contacts/99", nil)
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestContacts_Birthdays(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.Contacts.EXPECT().
		UpcomingBirthdays(gomock.Any(), int64(7), 7).
		Return([]*model.Contact{testContact()}, nil)

	r := httptest.NewRequest(http.MethodGet, "/contacts/birthdays", nil)
	env.authorize(t, r)
	w := env.do(r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody[[]model.Contact](t, w), 1)
}

func TestContacts_RequireAuth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	r := httptest.NewRequest(http.MethodGet, "/contacts/", nil)
	w := env.do(r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}
