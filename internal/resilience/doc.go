// Package resilience provides fault tolerance patterns for outbound calls.
//
// The package supports:
//   - Circuit breakers for feed hosts and the database
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	breakers := circuitbreaker.NewRegistry(circuitbreaker.FeedFetchConfig)
//	result, err := breakers.Get(host).Execute(func() (interface{}, error) {
//	    return fetch(ctx, url)
//	})
//
//	err := retry.WithBackoff(ctx, retry.FeedFetchConfig(), func() error {
//	    return performOperation()
//	})
package resilience
