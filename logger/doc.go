// Package logger is the central log repository for directvga. Log entries are
// kept in a bounded ring so that the most recent entries can be printed on
// request (the LOG command in the debugger) or echoed to an io.Writer as they
// arrive.
//
// Every call to Log() or Logf() must supply a Permission. The Allow value
// permits logging unconditionally. Other types can implement Permission to
// silence logging depending on context.
//
// Consecutive entries with the same tag and detail are collapsed into a
// single entry with a repeat count.
//
// Logging is not permitted from inside an interrupt handler.
package logger
