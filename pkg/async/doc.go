// Package async provides a small generic Future for running one computation
// in its own goroutine and collecting its result later.
//
// Async starts the computation and returns immediately. Await blocks until
// it finishes; AwaitContext and AwaitWithTimeout stop waiting early without
// cancelling the computation itself. Resolved builds a Future that is
// already complete, which lets callers queue ready values and pending
// computations side by side.
//
//	f := async.Async(ctx, key, func(ctx context.Context, key string) (content.Value, error) {
//		return store.Get(ctx, key)
//	})
//	v, err := f.AwaitContext(ctx)
//
// WaitAll collects the results of several futures in order.
package async
