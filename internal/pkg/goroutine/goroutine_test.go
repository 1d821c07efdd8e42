package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_GoWait(t *testing.T) {
	m := NewManager(4)
	errBoom := errors.New("boom")

	var ran atomic.Int32
	for i := range 4 {
		m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			if i == 0 {
				return errBoom
			}
			return nil
		})
	}

	err := m.Wait()
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, int32(4), ran.Load())

	m.Go(context.Background(), func(context.Context) error {
		ran.Add(1)
		return nil
	})
	assert.ErrorIs(t, m.Wait(), errBoom)
	assert.Equal(t, int32(4), ran.Load())
}

func TestManager_Panic(t *testing.T) {
	m := NewManager(1)
	m.Go(context.Background(), func(context.Context) error { panic("oops") })
	assert.NoError(t, m.Wait())
}

func TestManager_CanceledContext(t *testing.T) {
	m := NewManager(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	m.Go(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, m.Wait())
	assert.False(t, called)
}

func TestManager_Nil(t *testing.T) {
	var m *Manager
	m.Go(context.Background(), func(context.Context) error { return nil })
	assert.NoError(t, m.Wait())
}
