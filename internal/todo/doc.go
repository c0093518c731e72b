// Package todo reads, writes, and validates the task file.
//
// The task file (todos.json) is a bare JSON array, pretty-printed with
// two-space indentation:
//
//	[
//	  {
//	    "todo": "Buy milk",
//	    "isdone": false,
//	    "ispriority": true,
//	    "created_at": "2024-01-01 09:00:00.123456789 +07",
//	    "updated_at": ""
//	  }
//	]
//
// Key names and key order are fixed so that files written by earlier
// versions of the app still load. Re-saving keeps their keys, order and
// existing timestamp strings.
//
// # Timestamps
//
// created_at and updated_at are civil-time strings in a fixed UTC+7 zone
// (Asia/Jakarta) using the layout in TimestampLayout. The nanosecond field
// is fixed width, so timestamps in one zone compare chronologically as
// strings. ParseTimestamp also accepts the second-resolution and WIB forms
// written by earlier versions. updated_at is empty until the task is first
// updated.
//
// # Validation
//
// Validate checks raw file content against an embedded JSON Schema
// (draft 2020-12). When the schema cannot be compiled it falls back to
// minimal structural checks. Unparseable timestamps are reported as
// warnings, not errors.
//
// # File Format
//
// When writing task files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - A temporary file renamed over the destination
package todo
