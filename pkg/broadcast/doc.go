// Package broadcast provides a generic in-process fan-out of values to
// subscribers.
//
// Publishing never blocks. Each subscription has a bounded buffer; when it is
// full the value is dropped for that subscriber only and counted in Dropped.
// A subscription ends when its context is done, when Close is called on it,
// or when the broadcaster is closed.
//
//	b := broadcast.New[notifications.Record](16)
//	defer b.Close()
//
//	sub := b.Subscribe(r.Context())
//	for rec := range sub.C() {
//		// write an SSE event
//	}
package broadcast
