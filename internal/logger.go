package internal

import (
	"fmt"
	"log"
	"payfast/entity"
	"payfast/services"
	"time"
)

type importance string

const (
	info    importance = " "
	warning importance = "?"
	failure importance = "!"
)

// Logger writes log lines through a single background writer and, when a
// database is attached, mirrors every record to the payment log collection.
type Logger struct {
	name      string
	debugMode bool
	database  services.Database
	writer    chan *logEvent
}

type logEvent struct {
	importance importance
	message    *entity.LogMessage
}

func NewLogger(name string, debugMode bool, database services.Database) *Logger {
	logger := &Logger{
		name:      name,
		debugMode: debugMode,
		database:  database,
		writer:    make(chan *logEvent, 100),
	}
	go logger.startWriter()
	return logger
}

func (l *Logger) startWriter() {
	for event := range l.writer {
		message := event.message
		log.Printf("%s[%s] %s", event.importance, message.Feature, message.Text)
		if l.database != nil {
			if err := l.database.WriteLogMessage(message); err != nil {
				log.Println("write log to database failed;", err)
			}
		}
	}
}

func logTime(t time.Time) string {
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d:%02d", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
}

func (l *Logger) logEvent(imp importance, level, text string) {
	now := time.Now()
	l.writer <- &logEvent{
		importance: imp,
		message: &entity.LogMessage{
			Time:      logTime(now),
			Level:     level,
			Feature:   l.name,
			Text:      text,
			Timestamp: now.Unix(),
		},
	}
}

func (l *Logger) Debug(text string) {
	if !l.debugMode {
		return
	}
	l.logEvent(info, "debug", text)
}

func (l *Logger) Info(text string) {
	l.logEvent(info, "info", text)
}

func (l *Logger) Warn(text string) {
	l.logEvent(warning, "warning", text)
}

func (l *Logger) Error(text string, err error) {
	l.logEvent(failure, "error", fmt.Sprintf("%s: %s", text, err))
}
