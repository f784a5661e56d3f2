package eelog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eelog/eelog-go/pkg/eelog/event"
)

func nextLiveEvent(t *testing.T, ctx context.Context, events <-chan LiveEvent) LiveEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "event channel closed")
		return ev
	case <-ctx.Done():
		t.Fatal("timeout waiting for event")
	}
	return LiveEvent{}
}

func TestFollow_LineWrittenAcrossStart(t *testing.T) {
	path := writeLog(t, t.TempDir(), sessionLog+"50.000 Game [Warning]: Unit took high dm", baseMod)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, errs, err := Follow(ctx, path,
		WithPolling(true),
		WithIncludeRawLine(true),
		WithFollowParseOptions(WithUTC(true)),
	)
	require.NoError(t, err)

	appendLog(t, path, "g: 5e3\n")

	ev := nextLiveEvent(t, ctx, events)
	assert.Equal(t, event.LiveWarning, ev.Kind)
	assert.Equal(t, "50.000 Game [Warning]: Unit took high dmg: 5e3", ev.RawLine)
	require.NotNil(t, ev.Warning)
	assert.Equal(t, "10:00:50", ev.Warning.Time)
	assert.Equal(t, "5.00e+03", ev.Warning.Damage)

	select {
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	default:
	}

	cancel()
	for range events {
	}
	for range errs {
	}
}

func TestFollow_AppendedLines(t *testing.T) {
	path := writeLog(t, t.TempDir(), sessionLog, baseMod)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, errs, err := Follow(ctx, path,
		WithPolling(true),
		WithIncludeRawLine(true),
		WithFollowParseOptions(WithUTC(true)),
	)
	require.NoError(t, err)

	appendLog(t, path, "45.000 Game [Info]: Ash was killed by Tenno damage 10 / 99\n")
	appendLog(t, path, "46.000 Game [Warning]: Ash took high dmg: 2e3\n")

	ev := nextLiveEvent(t, ctx, events)
	assert.Equal(t, event.LiveCombat, ev.Kind)
	assert.Equal(t, "Tenno", ev.Player)
	require.NotNil(t, ev.Combat)
	assert.Equal(t, "10:00:45 - <Ash> killed by 99 damage at 10 health Tenno", ev.Combat.Message)
	assert.Equal(t, "45.000 Game [Info]: Ash was killed by Tenno damage 10 / 99", ev.RawLine)

	ev = nextLiveEvent(t, ctx, events)
	assert.Equal(t, event.LiveWarning, ev.Kind)
	require.NotNil(t, ev.Warning)
	assert.Equal(t, "10:00:46", ev.Warning.Time)
	assert.Equal(t, "2.00e+03", ev.Warning.Damage)

	cancel()
	for range events {
	}
	for range errs {
	}
}

func TestFollow_Replay(t *testing.T) {
	path := writeLog(t, t.TempDir(), sessionLog, baseMod)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, _, err := Follow(ctx, path,
		WithPolling(true),
		WithReplay(true),
		WithFollowParseOptions(WithUTC(true)),
	)
	require.NoError(t, err)

	// History: two combat events, then the two warnings at the unclaimed offset 30
	var kinds []event.LiveKind
	for i := 0; i < 4; i++ {
		ev := nextLiveEvent(t, ctx, events)
		assert.Empty(t, ev.RawLine)
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []event.LiveKind{
		event.LiveCombat, event.LiveCombat, event.LiveWarning, event.LiveWarning,
	}, kinds)
}

func TestFollow_MissingFile(t *testing.T) {
	_, _, err := Follow(context.Background(), filepath.Join(t.TempDir(), "EE.log"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccess))
}

func TestFollow_MalformedLineReported(t *testing.T) {
	path := writeLog(t, t.TempDir(), sessionLog, baseMod)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, errs, err := Follow(ctx, path, WithPolling(true))
	require.NoError(t, err)

	appendLog(t, path, "1.2.3 Game [Warning]: broken damage\n")
	appendLog(t, path, "50.0 Game [Warning]: fine damage\n")

	select {
	case err := <-errs:
		var we *WatchError
		require.True(t, errors.As(err, &we))
		assert.Equal(t, WatchOpParse, we.Op)
	case <-ctx.Done():
		t.Fatal("timeout waiting for parse error")
	}

	ev := nextLiveEvent(t, ctx, events)
	assert.Equal(t, "fine damage", ev.Warning.Message)
}
