package task_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/task"
)

func TestSweeper(t *testing.T) {
	f := newTaskFixture(t)
	due := f.clock.Now().Add(time.Hour)
	tsk, err := f.svc.Create(f.member.ID, f.newTask(due))
	require.NoError(t, err)

	f.clock.t = due.Add(time.Second)

	// the first sweep happens on Start, before the first tick
	sweeper := task.NewSweeper(f.svc, time.Hour, f.logger)
	sweeper.Start()

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := f.svc.GetByID(tsk.ID)
		require.NoError(t, err)
		if got.IsCompleted() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("task was not completed by the sweeper")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Stop blocks until the loop has drained
	done := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}

	got, err := f.svc.GetByID(tsk.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted())
}
