package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordsWithoutPanicking(t *testing.T) {
	r, err := New("shopping-agent-test")
	require.NoError(t, err)

	ctx := context.Background()
	r.RecordTurn(ctx, "greeting", "ok", 3*time.Millisecond)
	r.RecordSearch(ctx, 0)
	r.RecordSearch(ctx, 4)

	assert.NoError(t, r.Shutdown(ctx))
}

func TestRecorder_NilAndZeroAreNoOps(t *testing.T) {
	var nilRecorder *Recorder
	nilRecorder.RecordTurn(context.Background(), "help", "ok", time.Millisecond)
	nilRecorder.RecordSearch(context.Background(), 1)
	assert.NoError(t, nilRecorder.Shutdown(context.Background()))

	zero := &Recorder{}
	zero.RecordTurn(context.Background(), "help", "ok", time.Millisecond)
	assert.NoError(t, zero.Shutdown(context.Background()))
}
