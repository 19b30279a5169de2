package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"mystery_boxes/internal/auth"
	"mystery_boxes/internal/config"
	"mystery_boxes/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mystery-boxes", cmd.Use)
	assert.Contains(t, cmd.Long, "A-Z")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "migrate", "seed", "admin-token"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestFlags(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	port := serve.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)

	seed, _, err := cmd.Find([]string{"seed"})
	require.NoError(t, err)
	price := seed.Flags().Lookup("price")
	require.NotNil(t, price)
	assert.Equal(t, "5", price.DefValue)
}

func TestAdminTokenCommand(t *testing.T) {
	opts := &RootOptions{LoadConfig: func() (*config.Config, error) {
		cfg := &config.Config{}
		cfg.LoadDefaults()
		cfg.AdminPassword = "s3cret"
		return cfg, nil
	}}
	cmd := NewAdminTokenCommand(opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	token := strings.TrimSpace(out.String())
	assert.True(t, auth.Verify(token, "s3cret", time.Now().UTC()))
	assert.Contains(t, errOut.String(), "expires at")
}

func TestAdminTokenCommand_NoPassword(t *testing.T) {
	opts := &RootOptions{LoadConfig: func() (*config.Config, error) {
		cfg := &config.Config{}
		cfg.LoadDefaults()
		return cfg, nil
	}}
	cmd := NewAdminTokenCommand(opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	assert.ErrorIs(t, cmd.Execute(), auth.ErrMissingSecret)
}

func TestRootOptions_LoadError(t *testing.T) {
	boom := errors.New("invalid PORT")
	opts := &RootOptions{LoadConfig: func() (*config.Config, error) { return nil, boom }}
	_, _, err := opts.load()
	assert.ErrorIs(t, err, boom)
}

type countingSweeper struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *countingSweeper) ReleaseExpiredHolds(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return 1, s.err
}

func (s *countingSweeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRunJanitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sweeper := &countingSweeper{err: errors.New("throttled")}

	done := make(chan struct{})
	go func() {
		runJanitor(ctx, sweeper, 5*time.Millisecond, logging.Nop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return sweeper.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestRunJanitor_Disabled(t *testing.T) {
	sweeper := &countingSweeper{}
	runJanitor(context.Background(), sweeper, 0, logging.Nop())
	assert.Zero(t, sweeper.count())
}
