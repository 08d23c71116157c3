// Package audit delivers credential-store events to pluggable sinks.
//
// A [Dispatcher] buffers [Event] values and forwards them to a [Sink] from one
// goroutine, either dropping or blocking when the buffer is full. Sinks are
// provided for channels, JSON lines and log/slog.
//
// The package decides nothing about which events exist; the store emits them.
package audit
