package logs

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

var severities = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
	"FATAL": 4,
}

var (
	mu       sync.RWMutex
	logger   = log.New(os.Stdout, "", 0)
	minLevel = severities["INFO"]
)

// SetLevel drops every entry below the given severity. Unknown levels are ignored.
func SetLevel(level string) {
	if lvl, ok := severities[strings.ToUpper(level)]; ok {
		mu.Lock()
		minLevel = lvl
		mu.Unlock()
	}
}

func SetOutput(w io.Writer) {
	mu.Lock()
	logger = log.New(w, "", 0)
	mu.Unlock()
}

func LogJSON(level, message string, fields map[string]interface{}) {
	level = strings.ToUpper(level)
	mu.RLock()
	defer mu.RUnlock()
	if lvl, ok := severities[level]; ok && lvl < minLevel {
		return
	}

	logEntry := map[string]interface{}{
		"severity": level, // "DEBUG", "INFO", "WARN", "ERROR" & "FATAL"
		"message":  message,
		"time":     time.Now().Format(time.RFC3339),
	}
	for k, v := range fields {
		logEntry[k] = v
	}
	jsonLog, _ := json.Marshal(logEntry)
	logger.Println(string(jsonLog))
}
