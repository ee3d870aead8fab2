package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Permission implementations decide whether a log entry should be recorded
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow is the Permission value that always allows logging
var Allow Permission = allow{}

// maximum number of entries kept in the central log
const maxEntries = 256

// Entry is a single entry in the log
type Entry struct {
	Tag      string
	Detail   string
	Repeated int
	Time     time.Time
}

func (e Entry) String() string {
	if e.Repeated > 0 {
		return fmt.Sprintf("%s: %s (repeat x%d)", e.Tag, e.Detail, e.Repeated+1)
	}
	return fmt.Sprintf("%s: %s", e.Tag, e.Detail)
}

type logger struct {
	crit    sync.Mutex
	entries []Entry
	echo    io.Writer
}

var central = &logger{
	entries: make([]Entry, 0, maxEntries),
}

func (l *logger) log(tag string, detail string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	// multi-line details are split into separate entries
	for _, d := range strings.Split(detail, "\n") {
		if d == "" {
			continue
		}

		if n := len(l.entries); n > 0 {
			last := &l.entries[n-1]
			if last.Tag == tag && last.Detail == d {
				last.Repeated++
				last.Time = time.Now()
				continue // for loop
			}
		}

		e := Entry{
			Tag:    tag,
			Detail: d,
			Time:   time.Now(),
		}

		if len(l.entries) >= maxEntries {
			l.entries = append(l.entries[:0], l.entries[1:]...)
		}
		l.entries = append(l.entries, e)

		if l.echo != nil {
			fmt.Fprintln(l.echo, e.String())
		}
	}
}

// Log adds an entry to the central log. The detail argument can be of any type
// but a string, an error or a fmt.Stringer is the most useful
func Log(perm Permission, tag string, detail any) {
	if perm == nil || !perm.AllowLogging() {
		return
	}

	var s string
	switch d := detail.(type) {
	case string:
		s = d
	case error:
		s = d.Error()
	case fmt.Stringer:
		s = d.String()
	default:
		s = fmt.Sprintf("%v", d)
	}

	central.log(tag, s)
}

// Logf adds a formatted entry to the central log
func Logf(perm Permission, tag string, detail string, args ...any) {
	if perm == nil || !perm.AllowLogging() {
		return
	}
	central.log(tag, fmt.Sprintf(detail, args...))
}

// Clear all entries from the central log
func Clear() {
	central.crit.Lock()
	defer central.crit.Unlock()
	central.entries = central.entries[:0]
}

// Tail writes the last n entries to the io.Writer. A value of n less than zero
// writes all entries
func Tail(output io.Writer, n int) {
	central.crit.Lock()
	defer central.crit.Unlock()

	if n < 0 || n > len(central.entries) {
		n = len(central.entries)
	}
	for _, e := range central.entries[len(central.entries)-n:] {
		fmt.Fprintln(output, e.String())
	}
}

// SetEcho prints entries to the io.Writer as they are added. A nil writer
// stops the echo. If writeRecent is true the current contents of the log are
// written to the writer immediately
func SetEcho(output io.Writer, writeRecent bool) {
	central.crit.Lock()
	central.echo = output
	central.crit.Unlock()

	if output != nil && writeRecent {
		Tail(output, -1)
	}
}

// Entries returns a copy of the entries in the central log
func Entries() []Entry {
	central.crit.Lock()
	defer central.crit.Unlock()
	return append([]Entry(nil), central.entries...)
}
