package platform_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/internal/platform"
)

func TestSingleInstanceActivatesRunningInstance(t *testing.T) {
	appName := "focusflow-test-" + t.Name()
	guard, err := platform.AcquireSingleInstance(appName)
	require.NoError(t, err)
	defer guard.Release()

	activated := make(chan struct{}, 1)
	guard.OnActivate(func() { activated <- struct{}{} })

	second, err := platform.AcquireSingleInstance(appName)
	assert.Nil(t, second)
	require.ErrorIs(t, err, platform.ErrAlreadyRunning)

	select {
	case <-activated:
	case <-time.After(3 * time.Second):
		t.Fatal("running instance was not activated")
	}
}

func TestSingleInstanceReleaseFreesLock(t *testing.T) {
	appName := "focusflow-test-" + t.Name()
	guard, err := platform.AcquireSingleInstance(appName)
	require.NoError(t, err)
	assert.Contains(t, guard.Address(), "127.0.0.1:")
	require.NoError(t, guard.Release())

	again, err := platform.AcquireSingleInstance(appName)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestLockSingleInstanceDoesNotActivate(t *testing.T) {
	appName := "focusflow-test-" + t.Name()
	guard, err := platform.AcquireSingleInstance(appName)
	require.NoError(t, err)
	defer guard.Release()

	activated := make(chan struct{}, 1)
	guard.OnActivate(func() { activated <- struct{}{} })

	lock, err := platform.LockSingleInstance(appName)
	assert.Nil(t, lock)
	require.ErrorIs(t, err, platform.ErrAlreadyRunning)

	select {
	case <-activated:
		t.Fatal("lock attempt must not activate the running instance")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSyncAutostartSkipsWhenUnchanged(t *testing.T) {
	service := &fakeAutostart{enabled: true}

	require.NoError(t, platform.SyncAutostart(service, "focusflow", true))
	assert.Equal(t, 0, service.calls)

	require.NoError(t, platform.SyncAutostart(service, "focusflow", false))
	assert.Equal(t, 1, service.calls)
	assert.False(t, service.enabled)

	require.NoError(t, platform.SyncAutostart(service, "focusflow", true))
	assert.Equal(t, 2, service.calls)
	assert.True(t, service.enabled)
}

type fakeAutostart struct {
	enabled bool
	calls   int
}

func (service *fakeAutostart) GetConfigDir() (string, error) { return "", nil }

func (service *fakeAutostart) EnableAutostart(string, string) error {
	service.calls++
	service.enabled = true
	return nil
}

func (service *fakeAutostart) DisableAutostart(string) error {
	service.calls++
	service.enabled = false
	return nil
}

func (service *fakeAutostart) AutostartEnabled(string) (bool, error) {
	return service.enabled, nil
}
