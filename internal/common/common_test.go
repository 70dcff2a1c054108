package common_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/pasarly/backend-pasar/internal/common"
)

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items?page=3&limit=50", nil)
	page, perPage := common.ParsePagination(req, 20, 100)
	require.Equal(t, 3, page)
	require.Equal(t, 50, perPage)

	req = httptest.NewRequest(http.MethodGet, "/items?page=-1&limit=999", nil)
	page, perPage = common.ParsePagination(req, 20, 100)
	require.Equal(t, 1, page)
	require.Equal(t, 100, perPage)

	req = httptest.NewRequest(http.MethodGet, "/items", nil)
	page, perPage = common.ParsePagination(req, 20, 100)
	require.Equal(t, 1, page)
	require.Equal(t, 20, perPage)
}

func TestUserScopeCopiesHeader(t *testing.T) {
	var got string
	var found bool
	handler := common.UserScope(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = common.UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(common.UserIDHeader, "user-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, found)
	require.Equal(t, "user-42", got)

	found = false
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.False(t, found)
}

func TestIdemMiddlewareRejectsReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	idem := common.Idem{R: client, TTL: time.Minute}
	handler := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/documents", nil)
	req.Header.Set("Idempotency-Key", "abc-123")
	handler.ServeHTTP(first, req)
	require.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	replay := httptest.NewRequest(http.MethodPost, "/documents", nil)
	replay.Header.Set("Idempotency-Key", "abc-123")
	handler.ServeHTTP(second, replay)
	require.Equal(t, http.StatusConflict, second.Code)

	third := httptest.NewRecorder()
	fresh := httptest.NewRequest(http.MethodPost, "/documents", nil)
	fresh.Header.Set("Idempotency-Key", "other-456")
	handler.ServeHTTP(third, fresh)
	require.Equal(t, http.StatusCreated, third.Code)
}

func TestIdemMiddlewareScopesKeyByUserAndRoute(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	idem := common.Idem{R: client, TTL: time.Minute}
	handler := common.UserScope(idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))

	send := func(user, path string) int {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Idempotency-Key", "shared-key")
		req.Header.Set(common.UserIDHeader, user)
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusCreated, send("alice", "/documents"))
	require.Equal(t, http.StatusCreated, send("bob", "/documents"))
	require.Equal(t, http.StatusCreated, send("alice", "/cart/items"))
	require.Equal(t, http.StatusConflict, send("alice", "/documents"))
}

func TestIdemMiddlewarePassThroughWithoutKey(t *testing.T) {
	idem := common.Idem{}
	handler := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestAppErrorWrapping(t *testing.T) {
	base := errors.New("row missing")
	appErr := common.NewAppError("NOT_FOUND", "document not found", http.StatusNotFound, base)

	require.True(t, common.IsAppError(appErr))
	require.ErrorIs(t, appErr, base)
	require.Equal(t, "row missing", appErr.Error())

	bare := common.NewAppError("INTERNAL", "something broke", http.StatusInternalServerError, nil)
	require.Equal(t, "something broke", bare.Error())
	require.False(t, common.IsAppError(errors.New("plain")))
}

func TestJSONAppErrorUsesAttachedStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	wrapped := fmt.Errorf("lookup: %w",
		common.NewAppError("NOT_FOUND", "document not found", http.StatusNotFound, errors.New("row missing")))
	common.JSONAppError(rr, wrapped)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), `"code":"NOT_FOUND"`)
	require.Contains(t, rr.Body.String(), `"message":"document not found"`)

	plain := httptest.NewRecorder()
	common.JSONAppError(plain, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, plain.Code)
	require.Contains(t, plain.Body.String(), `"code":"INTERNAL"`)
}
