package content

import (
	"context"
	"log/slog"
	"sync"
)

// Task is one named load run by Gather.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Gather runs tasks on a pool of at most concurrency workers and
// returns each task's error by name (nil on success). A failing task
// never stops the others; tasks not started before ctx is cancelled
// report ctx.Err().
func Gather(ctx context.Context, concurrency int, tasks ...Task) map[string]error {
	results := make(map[string]error, len(tasks))
	if len(tasks) == 0 {
		return results
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(tasks) {
		concurrency = len(tasks)
	}

	type result struct {
		name string
		err  error
	}

	var wg sync.WaitGroup
	taskChan := make(chan Task)
	resultChan := make(chan result, len(tasks))

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChan {
				if err := ctx.Err(); err != nil {
					resultChan <- result{task.Name, err}
					continue
				}
				resultChan <- result{task.Name, task.Run(ctx)}
			}
		}()
	}

	go func() {
		for _, task := range tasks {
			taskChan <- task
		}
		close(taskChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for r := range resultChan {
		if r.err != nil {
			slog.Warn("load failed", "task", r.name, "error", r.err)
		}
		results[r.name] = r.err
	}
	return results
}
