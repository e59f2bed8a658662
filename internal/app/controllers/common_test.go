package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return ctx, w
}

func replyCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestFailWith(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"validation", &services.ValidationError{Fields: rules.ValidationErrors{"name": "required"}}, http.StatusBadRequest, code.ErrValidation},
		{"not found", fmt.Errorf("resident 4: %w", services.ErrNotFound), http.StatusNotFound, code.ErrResidentNotFound},
		{"role taken before generic conflict", services.ErrRoleTaken, http.StatusConflict, code.ErrResidentRoleTaken},
		{"conflict", fmt.Errorf("%w: number taken", services.ErrConflict), http.StatusConflict, code.ErrResidentAlreadyExist},
		{"household has members", services.ErrHouseholdHasMembers, http.StatusConflict, code.ErrHouseholdHasMembers},
		{"self delete", services.ErrSelfDelete, http.StatusBadRequest, code.ErrUserSelfDelete},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, code.ErrUserPasswordIncorrect},
		{"inactive", services.ErrUserInactive, http.StatusForbidden, code.ErrUserInactive},
		{"session", services.ErrSessionInvalid, http.StatusUnauthorized, code.ErrTokenInvalid},
		{"archive", services.ErrArchiveFailed, http.StatusInternalServerError, code.ErrBlotterArchiveFailed},
		{"storage", services.ErrStorage, http.StatusInternalServerError, code.ErrStorage},
		{"anything else", errors.New("disk full"), http.StatusInternalServerError, code.ErrDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, w := testContext("/api/residents")
			failWith(ctx, tt.err, code.ErrResidentNotFound, code.ErrResidentAlreadyExist)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, replyCode(t, w))
		})
	}
}

func TestParseID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3", ""} {
		ctx, w := testContext("/")
		ctx.Params = gin.Params{{Key: "id", Value: raw}}
		_, ok := parseID(ctx, "id")
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}

	ctx, _ := testContext("/")
	ctx.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := parseID(ctx, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("birthday", "")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = parseDate("birthday", "1990-06-19")
	require.NoError(t, err)
	assert.Equal(t, 1990, d.Year())

	_, err = parseDate("birthday", "19/06/1990")
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "birthday")
}

func TestParsePaginationDefaults(t *testing.T) {
	ctx, _ := testContext("/api/residents?page=0&page_size=5000")
	q := parsePagination(ctx)
	assert.GreaterOrEqual(t, q.Page, 1)
	assert.LessOrEqual(t, q.PageSize, 100)
}
