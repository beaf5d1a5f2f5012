// Package topic provides hierarchical topic names and wildcard matching for
// the event bus.
//
// Topics use dot-notation:
//
//	editor.selection.changed
//	editor.active.changed
//	document.changed
//	config.changed
//
// Two wildcards are supported in subscription patterns:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	editor.*             matches nothing above (editor topics have three segments)
//	editor.**            matches editor.selection.changed and editor.active.changed
//	*.changed            matches document.changed and config.changed
package topic
