package logger

import (
	"encoding/json"
	"log"
	"os"
)

// Init routes the stdlib logger to stdout with no prefix so every line
// is a standalone JSON record.
func Init() {
	log.SetOutput(os.Stdout)
	log.SetFlags(0)
	write("INFO", "logger initialized", nil)
}

func Info(msg string, fields map[string]any) {
	write("INFO", msg, fields)
}

func Warn(msg string, fields map[string]any) {
	write("WARN", msg, fields)
}

func Error(msg string, fields map[string]any) {
	write("ERROR", msg, fields)
}

func Fatal(msg string, fields map[string]any) {
	write("FATAL", msg, fields)
	os.Exit(1)
}

func write(level, msg string, fields map[string]any) {
	record := map[string]any{
		"level": level,
		"msg":   msg,
	}
	if len(fields) > 0 {
		record["fields"] = fields
	}
	line, err := json.Marshal(record)
	if err != nil {
		log.Printf(`{"level":"%s","msg":"%s"}`, level, msg)
		return
	}
	log.Print(string(line))
}
