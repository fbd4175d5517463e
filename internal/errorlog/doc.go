// Package errorlog extracts recent error records from PHP, WordPress,
// Apache and Nginx error logs.
//
// A Classifier tries an ordered list of line matchers:
//
//  1. php_file  [ts] PHP <level>: <msg> in <file> on line <n>
//  2. php       [ts] PHP <level>: <msg>
//  3. apache    [ts] [level] [pid block] <msg>
//  4. nginx     YYYY/MM/DD HH:MM:SS [level] pid#tid: <msg>
//  5. generic   [ts] <msg>
//
// The first match builds the Record. Lines matching nothing are dropped.
// Lines containing "WP Reporter:" are always dropped.
//
// File references pass through a PathSanitizer before they leave the
// package, and timestamps through a TimeNormalizer. Neither ever fails:
// an unparseable timestamp is kept verbatim.
//
// An Extractor tails each candidate file with logtail, classifies the
// lines, and returns the pool reversed (newest line of the last file
// first) and truncated. The order is by read position, not by parsed
// timestamp.
package errorlog
