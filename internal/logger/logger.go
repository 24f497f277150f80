package logger

import (
	"fmt"
	"log"
	"strings"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var currentLevel Level = INFO

func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel = DEBUG
	case "INFO":
		currentLevel = INFO
	case "WARN", "WARNING":
		currentLevel = WARN
	case "ERROR":
		currentLevel = ERROR
	case "FATAL":
		currentLevel = FATAL
	default:
		currentLevel = INFO
	}
}

func output(level Level, format string, v ...interface{}) {
	if currentLevel <= level {
		msg := fmt.Sprintf(format, v...)
		log.Printf("[%s] %s", levelNames[level], msg)
	}
}

func Debugf(format string, v ...interface{}) {
	output(DEBUG, format, v...)
}

func Infof(format string, v ...interface{}) {
	output(INFO, format, v...)
}

func Warnf(format string, v ...interface{}) {
	output(WARN, format, v...)
}

func Errorf(format string, v ...interface{}) {
	output(ERROR, format, v...)
}

func Fatalf(format string, v ...interface{}) {
	log.Fatalf("[FATAL] "+format, v...)
}
