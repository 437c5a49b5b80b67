package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendVerification(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *mockNotifier) SendWelcome(ctx context.Context, email, name string) error {
	return m.Called(ctx, email, name).Error(0)
}

func (m *mockNotifier) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	return m.Called(ctx, email, resetURL).Error(0)
}

func (m *mockNotifier) SendResetSuccess(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
