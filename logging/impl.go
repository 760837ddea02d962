package logging

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// impl fans every entry out to its appenders. Subloggers share the appender slice, so an appender
// added to a parent before the sublogger was created also receives the sublogger's entries.
type impl struct {
	name  string
	level AtomicLevel
	// inUTC stamps entries in UTC; test loggers keep local time to line up with `go test` output.
	inUTC bool

	appenders []Appender
}

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}

	return &impl{
		name:      newName,
		level:     NewAtomicLevelAt(imp.level.Get()),
		inUTC:     imp.inUTC,
		appenders: imp.appenders,
	}
}

func (imp *impl) Sync() error {
	var errs []error
	for _, appender := range imp.appenders {
		if err := appender.Sync(); err != nil {
			errs = append(errs, err)
		}
	}

	return multierr.Combine(errs...)
}

func (imp *impl) AsZap() *zap.SugaredLogger {
	// When downconverting to a SugaredLogger, copy those that implement the `zapcore.Core`
	// interface. This includes the observed logs for tests.
	var copiedCores []zapcore.Core
	for _, appender := range imp.appenders {
		if core, ok := appender.(zapcore.Core); ok {
			copiedCores = append(copiedCores, core)
		}
	}

	config := NewLoggerConfig()
	config.Level = zap.NewAtomicLevelAt(imp.level.Get().AsZap())
	ret := zap.Must(config.Build()).Sugar().Named(imp.name)
	for _, core := range copiedCores {
		ret = ret.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, core)
		}))
	}

	return ret
}

func (imp *impl) shouldLog(logLevel Level) bool {
	return logLevel >= imp.level.Get()
}

// emit builds and writes one entry. The message is rendered only once the level check passes. It
// must be called directly from the exported logging method so the caller lookup lands on the
// user's frame.
func (imp *impl) emit(logLevel Level, message func() string, keysAndValues []interface{}) {
	if !imp.shouldLog(logLevel) {
		return
	}
	entry := zapcore.Entry{
		Level:      logLevel.AsZap(),
		Time:       time.Now(),
		LoggerName: imp.name,
		Caller:     getCaller(),
		Message:    message(),
	}
	if imp.inUTC {
		entry.Time = entry.Time.UTC()
	}
	fields := toFields(keysAndValues)
	for _, appender := range imp.appenders {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Fprint(os.Stderr, err)
		}
	}
}

// toFields pairs up alternating keys and values. A trailing key without a value is kept with an
// error value rather than dropped.
func toFields(keysAndValues []interface{}) []zapcore.Field {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for keyIdx := 0; keyIdx < len(keysAndValues); keyIdx += 2 {
		key := fmt.Sprint(keysAndValues[keyIdx])
		if keyIdx+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(key, keysAndValues[keyIdx+1]))
		} else {
			fields = append(fields, zap.Any(key, errors.New("unpaired log key")))
		}
	}
	return fields
}

func (imp *impl) Debug(args ...interface{}) {
	imp.emit(DEBUG, func() string { return fmt.Sprint(args...) }, nil)
}

func (imp *impl) Debugf(template string, args ...interface{}) {
	imp.emit(DEBUG, func() string { return fmt.Sprintf(template, args...) }, nil)
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.emit(DEBUG, func() string { return msg }, keysAndValues)
}

func (imp *impl) Info(args ...interface{}) {
	imp.emit(INFO, func() string { return fmt.Sprint(args...) }, nil)
}

func (imp *impl) Infof(template string, args ...interface{}) {
	imp.emit(INFO, func() string { return fmt.Sprintf(template, args...) }, nil)
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.emit(INFO, func() string { return msg }, keysAndValues)
}

func (imp *impl) Warn(args ...interface{}) {
	imp.emit(WARN, func() string { return fmt.Sprint(args...) }, nil)
}

func (imp *impl) Warnf(template string, args ...interface{}) {
	imp.emit(WARN, func() string { return fmt.Sprintf(template, args...) }, nil)
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.emit(WARN, func() string { return msg }, keysAndValues)
}

func (imp *impl) Error(args ...interface{}) {
	imp.emit(ERROR, func() string { return fmt.Sprint(args...) }, nil)
}

func (imp *impl) Errorf(template string, args ...interface{}) {
	imp.emit(ERROR, func() string { return fmt.Sprintf(template, args...) }, nil)
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.emit(ERROR, func() string { return msg }, keysAndValues)
}

// getCaller skips itself, emit and the exported logging method to reach the user's call site.
func getCaller() zapcore.EntryCaller {
	var ok bool
	var entryCaller zapcore.EntryCaller
	const skipToLogCaller = 3
	entryCaller.PC, entryCaller.File, entryCaller.Line, ok = runtime.Caller(skipToLogCaller)
	if !ok {
		return entryCaller
	}
	entryCaller.Defined = true

	runtimeFunc := runtime.FuncForPC(entryCaller.PC)
	if runtimeFunc != nil {
		entryCaller.Function = runtimeFunc.Name()
	}

	return entryCaller
}
