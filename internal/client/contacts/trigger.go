// Package contacts refreshes the local roster after a successful login.
//
// The login flow only calls Trigger; the actual fetch runs on the
// Dispatcher's worker and never blocks or fails the caller.
package contacts

// Trigger requests a contact sync. Implementations must return immediately.
type Trigger interface {
	Trigger()
}

// TriggerFunc adapts a function to Trigger.
type TriggerFunc func()

func (f TriggerFunc) Trigger() { f() }

// Nop is a Trigger that does nothing.
var Nop Trigger = TriggerFunc(func() {})
