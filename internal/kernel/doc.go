// Package kernel implements the flightbrain message-passing micro-kernel.
//
// Systems never call each other. They communicate through a Queue of
// application-defined messages and mutate a shared program state, driven by
// a synchronous tick loop.
//
// ARCHITECTURE:
//
// Double-Buffered Queue:
// Queue holds two buffers. The current buffer is what systems read this
// tick; Push appends to the next buffer. NextTick swaps them and clears the
// new next buffer, so a message pushed during tick N is visible during tick
// N+1 and only tick N+1.
//
// Tick Loop:
// Run repeats three phases until the selector returns an empty list:
//  1. Select: the selector receives the state, the queue and the systems of
//     the previous tick (nil on the first call) and returns the systems for
//     this tick. An empty result ends the loop without executing a tick.
//  2. Advance: Queue.NextTick is called exactly once.
//  3. Dispatch: every selected system is updated once, in list order.
//
// Everything runs on the caller's goroutine. There is no locking, no
// timeout and no cancellation: a selector that never returns an empty list
// runs forever, and a panic inside a system ends the run.
//
// Faults are messages. A system that fails pushes an error-carrying message
// for a downstream system to observe on the next tick.
package kernel
