// Package async provides a small worker pool for running independent
// read queries concurrently and collecting their results by name.
package async

import "context"

// Task is a named unit of work.
type Task struct {
	Name    string
	Execute func() (interface{}, error)
}

// Result is the outcome of one task.
type Result struct {
	Name string
	Data interface{}
	Err  error
}

// Pool bounds how many tasks run at once.
type Pool struct {
	size int
}

// NewPool creates a pool running at most size tasks concurrently.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size}
}

// Execute runs all tasks and returns their results keyed by task name.
// A cancelled context abandons collection and returns whatever finished
// in time.
func (p *Pool) Execute(ctx context.Context, tasks []Task) map[string]Result {
	pending := make(chan Task, len(tasks))
	done := make(chan Result, len(tasks))

	workers := p.size
	if workers > len(tasks) {
		workers = len(tasks)
	}
	for i := 0; i < workers; i++ {
		go func() {
			for task := range pending {
				data, err := task.Execute()
				done <- Result{Name: task.Name, Data: data, Err: err}
			}
		}()
	}

	for _, task := range tasks {
		pending <- task
	}
	close(pending)

	results := make(map[string]Result, len(tasks))
	for range tasks {
		select {
		case result := <-done:
			results[result.Name] = result
		case <-ctx.Done():
			return results
		}
	}
	return results
}
