// Package async runs named tasks concurrently and reports their individual
// outcomes, so one host's failure never hides another host's result.
package async

import (
	"context"
)

// Task is a named unit of concurrent work.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunAll executes every task in its own goroutine and waits for all of them.
// It returns the per-task errors keyed by task name; tasks that succeeded are
// absent from the map. A nil map means every task succeeded.
func RunAll(ctx context.Context, tasks []Task) map[string]error {
	if len(tasks) == 0 {
		return nil
	}

	type outcome struct {
		name string
		err  error
	}

	results := make(chan outcome, len(tasks))
	for _, task := range tasks {
		go func() {
			results <- outcome{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var failed map[string]error
	for range len(tasks) {
		res := <-results
		if res.err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[res.name] = res.err
		}
	}
	return failed
}
