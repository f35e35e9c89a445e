package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCapabilityChecker is a mock implementation of CapabilityChecker
type MockCapabilityChecker struct {
	mock.Mock
}

func (m *MockCapabilityChecker) ExtensionExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func TestCapabilityProbe_NativeSearchAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("memoizes a positive verdict", func(t *testing.T) {
		store := new(MockCapabilityChecker)
		store.On("ExtensionExists", mock.Anything).Return(true, nil).Once()

		probe := NewCapabilityProbe(store)

		for i := 0; i < 5; i++ {
			assert.True(t, probe.NativeSearchAvailable(ctx))
		}
		store.AssertExpectations(t)
	})

	t.Run("memoizes a negative verdict", func(t *testing.T) {
		store := new(MockCapabilityChecker)
		store.On("ExtensionExists", mock.Anything).Return(false, nil).Once()

		probe := NewCapabilityProbe(store)

		assert.False(t, probe.NativeSearchAvailable(ctx))
		assert.False(t, probe.NativeSearchAvailable(ctx))
		store.AssertExpectations(t)
	})

	t.Run("probe failure resolves to unavailable, never errors", func(t *testing.T) {
		store := new(MockCapabilityChecker)
		store.On("ExtensionExists", mock.Anything).Return(false, errors.New("connection refused")).Once()

		probe := NewCapabilityProbe(store)

		assert.False(t, probe.NativeSearchAvailable(ctx))
	})

	t.Run("re-probes after the TTL elapses", func(t *testing.T) {
		store := new(MockCapabilityChecker)
		store.On("ExtensionExists", mock.Anything).Return(false, nil).Once()
		store.On("ExtensionExists", mock.Anything).Return(true, nil).Once()

		current := time.Now()
		probe := NewCapabilityProbe(store)
		probe.now = func() time.Time { return current }

		assert.False(t, probe.NativeSearchAvailable(ctx))

		current = current.Add(capabilityTTL / 2)
		assert.False(t, probe.NativeSearchAvailable(ctx), "verdict should still be cached")

		current = current.Add(capabilityTTL)
		assert.True(t, probe.NativeSearchAvailable(ctx), "expired cache should re-probe")
		store.AssertExpectations(t)
	})
}
