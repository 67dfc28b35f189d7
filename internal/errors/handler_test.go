package errors

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingOutput records every call made through ColorOutput.
type recordingOutput struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingOutput) record(kind string, msgs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, kind+":"+fmt.Sprint(msgs))
}

func (r *recordingOutput) Error(msgs ...string)   { r.record("error", msgs) }
func (r *recordingOutput) Warning(msgs ...string) { r.record("warning", msgs) }
func (r *recordingOutput) Info(msgs ...string)    { r.record("info", msgs) }
func (r *recordingOutput) Success(msgs ...string) { r.record("success", msgs) }

func TestCLIHandlerForwardsToOutput(t *testing.T) {
	out := &recordingOutput{}
	handler := NewCLIHandler(out)

	handler.Error("e")
	handler.Warning("w")
	handler.Info("i")
	handler.Success("s")

	assert.Equal(t, []string{"error:[e]", "warning:[w]", "info:[i]", "success:[s]"}, out.calls)
	assert.False(t, handler.inHandling, "handling flag should be reset after Error returns")
}

func TestCLIHandlerErrorWhenAlreadyHandling(t *testing.T) {
	out := &recordingOutput{}
	handler := NewCLIHandler(out)

	handler.inHandling = true
	handler.Error("nested")

	assert.Equal(t, []string{"error:[nested]"}, out.calls)
	assert.True(t, handler.inHandling, "inHandling should stay true on fast path")
}

func TestReporter(t *testing.T) {
	out := &recordingOutput{}
	report := Reporter(NewCLIHandler(out), "sync")

	report(nil)
	report(fmt.Errorf("boom"))

	assert.Equal(t, []string{"error:[sync: boom]"}, out.calls)

	out.calls = nil
	Reporter(NewCLIHandler(out), "")(fmt.Errorf("plain"))
	assert.Equal(t, []string{"error:[plain]"}, out.calls)
}

func TestDefaultCLIHandlerWritesToStderr(t *testing.T) {
	old := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = old })

	handler := NewDefaultCLIHandler()
	assert.IsType(t, consoleOutput{}, handler.colors)
	handler.Error("adapter error")

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), "adapter error")
}

func TestTUIHandlerStoresAndNotifies(t *testing.T) {
	var seen []Message
	handler := NewTUIHandler(func(msg Message) { seen = append(seen, msg) })

	handler.Error("error 1")
	handler.Warning("warning 2")
	handler.Info("info 3")
	handler.Success("success 4")

	all := handler.GetAll()
	require.Len(t, all, 4)
	assert.Equal(t, all, seen)
	assert.Equal(t, MessageTypeError, all[0].Type)
	assert.Equal(t, MessageTypeWarning, all[1].Type)
	assert.Equal(t, MessageTypeInfo, all[2].Type)
	assert.Equal(t, MessageTypeSuccess, all[3].Type)
	assert.False(t, all[0].Timestamp.IsZero())

	latest, ok := handler.GetLatest()
	require.True(t, ok)
	assert.Equal(t, "success 4", latest.Text)

	all[0].Text = "modified"
	assert.Equal(t, "error 1", handler.GetAll()[0].Text, "GetAll should return a copy")
}

func TestTUIHandlerClear(t *testing.T) {
	handler := NewTUIHandler(nil)
	handler.Error("x")

	handler.Clear()

	assert.Empty(t, handler.GetAll())
	_, ok := handler.GetLatest()
	assert.False(t, ok)
}

func TestTUIHandlerKeepsOnlyRecentMessages(t *testing.T) {
	handler := NewTUIHandler(nil)

	for i := 0; i < DefaultMessageLimit+5; i++ {
		handler.Info(fmt.Sprintf("message %d", i))
	}

	all := handler.GetAll()
	require.Len(t, all, DefaultMessageLimit)
	assert.Equal(t, "message 5", all[0].Text)
	assert.Equal(t, fmt.Sprintf("message %d", DefaultMessageLimit+4), all[len(all)-1].Text)
}

func TestTUIHandlerCallbackMayReenter(t *testing.T) {
	var handler *TUIHandler
	handler = NewTUIHandler(func(Message) {
		_, _ = handler.GetLatest()
	})

	assert.NotPanics(t, func() { handler.Warning("reentrant") })
}

func TestTUIHandlerConcurrentAccess(t *testing.T) {
	handler := NewTUIHandler(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				handler.Info("message from goroutine")
			}
		}()
	}
	wg.Wait()

	assert.Len(t, handler.GetAll(), DefaultMessageLimit)
}

func TestMessageTypeString(t *testing.T) {
	assert.Equal(t, "error", MessageTypeError.String())
	assert.Equal(t, "warning", MessageTypeWarning.String())
	assert.Equal(t, "info", MessageTypeInfo.String())
	assert.Equal(t, "success", MessageTypeSuccess.String())
	assert.Equal(t, "unknown", MessageType(42).String())
}
