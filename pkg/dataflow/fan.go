package dataflow

import (
	"context"
	"sync"
)

// FanIn merges multiple streams into a single one. The output closes once
// every input is drained.
func FanIn[T any](ctx context.Context, streams ...Stream[T]) Stream[T] {
	var wg sync.WaitGroup
	out := make(chan T)

	output := func(c Stream[T]) {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-c:
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- msg:
				}
			}
		}
	}

	wg.Add(len(streams))
	for _, c := range streams {
		go output(c)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
