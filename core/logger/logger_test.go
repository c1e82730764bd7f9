package logger

import (
	"bytes"
	"fmt"
	"log"
)

func Example_stdOutLoggerLevels() {
	var l StdOutLogger
	l.SetLogLevel(LogError)
	fmt.Println(l.GetLogLevel() == LogError)

	lvl, ok := ParseLogLevel("debug")
	fmt.Println(lvl == LogDebug, ok)
	lvl, ok = ParseLogLevel("2")
	fmt.Println(lvl == LogError, ok)
	_, ok = ParseLogLevel("verbose")
	fmt.Println(ok)

	// Output:
	// true
	// true true
	// true true
	// false
}

func Example_memLogger() {
	l := &MemLogger{}
	l.Infof("listing %v", "bucket")
	l.Errorf("failed: %v", 42)
	l.Debugf("detail")

	fmt.Println(l.Lines())
	fmt.Println(l.LinesAt(LogError))

	// Output:
	// [INFO: listing bucket ERROR: failed: 42 DEBUG: detail]
	// [ERROR: failed: 42]
}

func Example_stdOutLoggerOutput() {
	var buf bytes.Buffer
	l := StdOutLogger{Out: log.New(&buf, "", 0)}
	l.SetLogLevel(LogInfo)

	l.Debugf("not shown")
	l.Infof("op: %v, status: %v", "get", 200)
	l.Errorf("side effect failed: %v", "timeout")

	fmt.Print(buf.String())

	// Output:
	// INFO: op: get, status: 200
	// ERROR: side effect failed: timeout
}
