// Package async runs functions in goroutines and collects their results
// through generic futures.
//
//	f := async.Async(ctx, channel, deliver)
//	res, err := f.Await()
//
// Settle waits for a group of futures and returns every outcome, which is what
// fan-out code wants when each task is its own failure domain. A panic inside a
// task is recovered and surfaced as a *PanicError matching ErrPanic.
package async
