// Package logtail reads the end of log files.
//
// # Overview
//
// Web server and PHP error logs regularly grow to several gigabytes. This
// package returns the last N non-blank lines of such a file without
// scanning it from the start and without holding more than one chunk plus
// the collected lines in memory.
//
// Example usage:
//
//	lines, err := logtail.Read("/var/log/nginx/error.log", 30)
//	if err != nil {
//		// the file existed but could not be read to the end
//	}
//
// # Reverse Chunk Algorithm
//
//	1. Stat the file and start the cursor at end-of-file
//	2. Step the cursor back by one chunk (4 KiB by default)
//	3. Read the chunk and append the unfinished line carried from the
//	   previous step
//	4. Split on '\n'. Unless the cursor reached offset zero, the first
//	   piece may be cut in the middle, so it becomes the new carry
//	5. Walk the remaining pieces from last to first, keeping non-blank
//	   lines until maxLines are collected
//	6. Repeat until maxLines are collected or the cursor is at zero
//	7. Reverse the collected lines into chronological order
//
// Memory is O(chunkSize + maxLines × average line length) regardless of
// file size.
//
// # Line Handling
//
//   - Blank and whitespace-only lines do not count toward maxLines
//   - A trailing '\r' is removed so CRLF logs compare cleanly
//   - A last line without a terminating newline is still returned
//
// # Error Handling
//
// Read returns nil, nil when maxLines <= 0 or when the path is missing,
// unreadable or not a regular file. A caller cannot tell "no file" from
// "empty file", and does not need to. Errors while reading an opened file
// (device errors, a file truncated during the read) are returned wrapped
// so the caller can drop that file's contribution.
//
// # Design Rationale
//
// There is no follow mode and no rotation handling here. Live refresh is
// the app package's job; logtail only answers "what are the last lines
// right now".
package logtail
