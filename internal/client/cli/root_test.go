package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/config"
)

type fakeRunner struct {
	fakeExec
	cfg    *config.Config
	chats  int
	askIn  []string
	closed int
}

func (f *fakeRunner) Chat(context.Context) error { f.chats++; return nil }
func (f *fakeRunner) AskIn(_ context.Context, ref, text string) error {
	f.askIn = append(f.askIn, ref+"|"+text)
	return nil
}
func (f *fakeRunner) Close() error { f.closed++; return nil }

func stubRunner(t *testing.T) *fakeRunner {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	fr := &fakeRunner{}
	orig := newRunner
	newRunner = func(_ context.Context, cfg *config.Config, _ io.Reader, _ io.Writer) (runner, error) {
		fr.cfg = cfg
		return fr, nil
	}
	t.Cleanup(func() { newRunner = orig })
	return fr
}

func TestExecute_DefaultsToChat(t *testing.T) {
	fr := stubRunner(t)

	require.NoError(t, Execute(context.Background(), nil))
	assert.Equal(t, 1, fr.chats)
	assert.Equal(t, 1, fr.closed)
}

func TestExecute_Subcommands(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"login"}, []string{"login"}},
		{[]string{"register"}, []string{"signup"}},
		{[]string{"logout"}, []string{"logout"}},
		{[]string{"whoami"}, []string{"whoami"}},
		{[]string{"list"}, []string{"trips"}},
		{[]string{"delete-trip", "c-1"}, []string{"delete c-1 false"}},
		{[]string{"delete-trip", "-y", "c-1"}, []string{"delete c-1 true"}},
		{[]string{"delete-account", "--yes"}, []string{"delete-account true"}},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			fr := stubRunner(t)
			require.NoError(t, Execute(context.Background(), tt.args))
			assert.Equal(t, tt.want, fr.calls)
			assert.Equal(t, 1, fr.closed)
		})
	}
}

func TestExecute_Ask(t *testing.T) {
	fr := stubRunner(t)

	require.NoError(t, Execute(context.Background(), []string{"ask", "--trip", "c-3", "best", "time", "for", "Ella?"}))
	assert.Equal(t, []string{"c-3|best time for Ella?"}, fr.askIn)
}

func TestExecute_ArgValidation(t *testing.T) {
	stubRunner(t)

	require.Error(t, Execute(context.Background(), []string{"ask"}))
	require.Error(t, Execute(context.Background(), []string{"delete-trip"}))
	require.Error(t, Execute(context.Background(), []string{"whoami", "extra"}))
}

func TestExecute_PersistentFlagsReachConfig(t *testing.T) {
	fr := stubRunner(t)

	require.NoError(t, Execute(context.Background(), []string{
		"whoami", "--server", "https://trips.example.com", "--idle-timeout", "5m", "--state", "/tmp/x.db", "-v",
	}))

	require.NotNil(t, fr.cfg)
	assert.Equal(t, "https://trips.example.com", fr.cfg.ServerBaseURL)
	assert.Equal(t, 5*time.Minute, fr.cfg.InactivityTimeout)
	assert.Equal(t, "/tmp/x.db", fr.cfg.StatePath)
	assert.True(t, fr.cfg.Verbose)
	assert.Equal(t, 2*time.Minute, fr.cfg.RequestTimeout)
}
