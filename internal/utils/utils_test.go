package utils

import (
	"context"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetUserContext(t *testing.T) {
	ctx := context.Background()
	ctx = SetUserContext(ctx, "user-1", "buyer@example.com", "buyer")

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)
	assert.Equal(t, "buyer@example.com", GetUserEmailFromContext(ctx))
	assert.Equal(t, "buyer", GetUserRoleFromContext(ctx))
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	id, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestIsValidPostalCode(t *testing.T) {
	assert.True(t, IsValidPostalCode("560001"))
	assert.False(t, IsValidPostalCode("56001"))
	assert.False(t, IsValidPostalCode("5600011"))
	assert.False(t, IsValidPostalCode("56O001"))
	assert.False(t, IsValidPostalCode(""))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("9876543210"))
	assert.False(t, IsValidPhone("987654321"))
	assert.False(t, IsValidPhone("98765432100"))
	assert.False(t, IsValidPhone("98765-4321"))
}

func TestPtrHelpers(t *testing.T) {
	s := "hello"
	assert.Equal(t, &s, StrPtr("hello"))
	assert.Equal(t, "hello", PtrString(&s))
	assert.Equal(t, "", PtrString(nil))
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "boom", 400)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "boom")
}

func TestGenerateOrderNumber(t *testing.T) {
	n1 := GenerateOrderNumber()
	n2 := GenerateOrderNumber()

	assert.True(t, strings.HasPrefix(n1, "ORD-"))
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-\d{6}-\d{3}-\d{4}$`), n1)
	assert.NotEqual(t, n1, n2)
}
