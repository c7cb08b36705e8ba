// Package realtime provides a fixed-time-step backend for an ssmcore
// program, for use cases that need wall-clock pacing instead of the
// core runtime's jump-straight-to-the-next-event loop: game logic,
// physics simulation, robotics control loops, and reproducible replay.
//
// # Event-driven vs fixed time-step
//
// ssmcore.Runtime.Run advances current_time directly to the next
// pending channel commit or timer, so it burns no wall-clock time on
// idle instants — ideal for throughput. RealtimeRuntime instead
// advances by exactly one logical unit per wall-clock tick, driven by
// an extensibility.EventSource, trading throughput for a bounded,
// predictable per-tick budget and wall-clock-synchronized output.
//
// Determinism is unaffected either way: ordering within an instant is
// governed entirely by Priority, never by wall-clock arrival order.
package realtime
