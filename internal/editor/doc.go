// Package editor models the editor host that jmbglens runs inside.
//
// The host owns documents, the views that display them, each view's
// selections and decorations, and a single cooperative event loop. Every
// host mutation (moving a selection, applying an edit, switching the active
// view) updates state immediately and queues its notification on the loop;
// the loop publishes notifications to the event bus in FIFO order. Handlers
// therefore run one at a time on the loop and never interleave.
//
// # Positions
//
// Point is a 0-based (line, column) pair where column counts runes. Span is a
// half-open range [Start, End) with Start <= End in document order.
//
// # Decorations
//
// CreateDecorationType returns an opaque handle. A view renders each live
// handle over the spans last set for it; Dispose removes the handle from
// every view. The host tracks live handles so leaks are observable.
package editor
