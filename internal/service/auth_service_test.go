package service

import (
	"alcyxob/meal-planner/internal/domain"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testSecret = "test-secret"

func newTestAuthService(t *testing.T) (AuthService, *fakeUserRepo, *fakeMealRepo) {
	t.Helper()
	users := newFakeUserRepo()
	meals := newFakeMealRepo()
	logger := zaptest.NewLogger(t)
	mealSvc := NewMealService(meals, newFakePlanRepo(), logger)
	return NewAuthService(users, mealSvc, testSecret, time.Hour, logger), users, meals
}

func parseUID(t *testing.T, token string) string {
	t.Helper()
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	return claims.UserID
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t)

	user, err := svc.Register(ctx, " Anna@Example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Register(ctx, "anna@example.com", "another1")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	token, loggedIn, err := svc.Login(ctx, "anna@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, user.ID, parseUID(t, token))

	_, _, err = svc.Login(ctx, "anna@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, err := svc.Register(context.Background(), "not-an-email", "secret123")
	assert.Error(t, err)
	_, err = svc.Register(context.Background(), "a@b.c", "123")
	assert.Error(t, err)
}

func TestDemo_SeedsMeals(t *testing.T) {
	ctx := context.Background()
	svc, _, meals := newTestAuthService(t)

	token, user, err := svc.Demo(ctx)
	require.NoError(t, err)
	assert.True(t, user.IsDemo)
	assert.True(t, strings.HasPrefix(user.Email, "demo-"))
	assert.Equal(t, user.ID, parseUID(t, token))

	list, err := meals.ListByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, len(demoMeals))
}

func TestSetReminder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t)
	user, err := svc.Register(ctx, "anna@example.com", "secret123")
	require.NoError(t, err)

	updated, err := svc.SetReminder(ctx, user.ID, domain.Reminder{Enabled: true, Weekday: 0, Hour: 18, Minute: 30, PushToken: "tok"})
	require.NoError(t, err)
	require.NotNil(t, updated.Reminder)
	assert.Equal(t, 18, updated.Reminder.Hour)

	cases := []domain.Reminder{
		{Weekday: 7},
		{Hour: 24},
		{Minute: -1},
		{Enabled: true},
	}
	for _, rem := range cases {
		_, err := svc.SetReminder(ctx, user.ID, rem)
		assert.ErrorIs(t, err, ErrInvalidReminder, "%+v", rem)
	}
}
