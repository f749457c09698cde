// Package resilience groups the fault tolerance helpers used around external calls.
//
//   - retry: the bounded retry executor wrapped around every network call
//     (gist fetch, completion request, Notion operations)
//   - circuitbreaker: gobreaker wrapper guarding the completion providers
//
// Usage Example:
//
//	exec := retry.New(retry.AIAPIPolicy(), retry.WithLogger(logger))
//	text, err := retry.Do(ctx, exec, "openai.complete", func(ctx context.Context) (string, error) {
//	    return circuitbreaker.Execute(cb, func() (string, error) {
//	        return client.complete(ctx, prompt)
//	    })
//	})
package resilience
