package analysis

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressQueueOrderPreserved(t *testing.T) {
	queue := newProgressQueue()

	queue.push(0, "a.rs", stageStarted)
	queue.push(100, "a.rs", stageComplete)
	queue.push(0, "b.rs", stageStarted)
	queue.close()

	var got []string

	queue.forward(func(percent float64, message string) {
		got = append(got, fmt.Sprintf("%.0f %s", percent, message))
	})

	assert.Equal(t, []string{
		"0 a.rs - analysis started",
		"100 a.rs - analysis complete",
		"0 b.rs - analysis started",
	}, got)
}

func TestProgressQueuePushAfterCloseDropped(t *testing.T) {
	queue := newProgressQueue()
	queue.close()
	queue.push(0, "late.rs", stageStarted)

	var count int

	queue.forward(func(float64, string) { count++ })

	assert.Zero(t, count)
}

func TestProgressQueueManyWriters(t *testing.T) {
	queue := newProgressQueue()

	const writers = 8

	const perWriter = 50

	var wg sync.WaitGroup

	for w := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range perWriter {
				queue.push(float64(i), fmt.Sprintf("w%d", w), stageStarted)
			}
		}()
	}

	done := make(chan int)

	go func() {
		count := 0

		queue.forward(func(float64, string) { count++ })

		done <- count
	}()

	wg.Wait()
	queue.close()

	require.Equal(t, writers*perWriter, <-done)
}
