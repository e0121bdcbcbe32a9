package logger

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

var (
	_ Logger = &LoggerT{}
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelOff
)

var levelNames = map[Level]string{
	LevelDebug:   "debug",
	LevelInfo:    "info",
	LevelWarning: "warning",
	LevelError:   "error",
	LevelOff:     "off",
}

// Logger writes one line per event: a level letter, the event name padded
// to a column, then the formatted message.
type Logger interface {
	Debug(event, format string, args ...interface{})
	Info(event, format string, args ...interface{})
	Warning(event, format string, args ...interface{})
	Error(event, format string, args ...interface{})
}

type LoggerT struct {
	level   Level
	ptr     *log.Logger
	colored bool
}

func New(w io.Writer, level Level, colored bool) Logger {
	return &LoggerT{
		level:   level,
		ptr:     log.New(w, "", log.LstdFlags),
		colored: colored,
	}
}

func Discard() Logger {
	return New(ioutil.Discard, LevelOff, false)
}

func ParseLevel(name string) (Level, error) {
	for level, levelName := range levelNames {
		if strings.EqualFold(name, levelName) {
			return level, nil
		}
	}
	return LevelOff, errors.Errorf("unknown log level %q", name)
}

func (level Level) String() string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(level))
}

func (lg *LoggerT) Debug(event, format string, args ...interface{}) {
	lg.print(LevelDebug, 'D', color.New(color.FgCyan), event, format, args)
}

func (lg *LoggerT) Info(event, format string, args ...interface{}) {
	lg.print(LevelInfo, 'I', nil, event, format, args)
}

func (lg *LoggerT) Warning(event, format string, args ...interface{}) {
	lg.print(LevelWarning, 'W', color.New(color.FgYellow), event, format, args)
}

func (lg *LoggerT) Error(event, format string, args ...interface{}) {
	lg.print(LevelError, 'E', color.New(color.FgRed), event, format, args)
}

func (lg *LoggerT) print(level Level, letter rune, paint *color.Color, event, format string, args []interface{}) {
	if level < lg.level {
		return
	}

	line := fmt.Sprintf("[%c] %-10s", letter, event) + fmt.Sprintf(format, args...)
	if lg.colored && paint != nil {
		paint.EnableColor()
		line = paint.Sprint(line)
	}

	lg.ptr.Print(line)
}
