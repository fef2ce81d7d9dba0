package binlog

// globalLogger is the process-wide logger used by the package-level emit
// helpers. It defaults to a discarding logger until SetGlobal is called.
var globalLogger = New(nil)

// SetGlobal installs the process-wide logger. Call it once at startup,
// before any call site runs; it is not synchronized against in-flight
// emissions. Passing nil restores the discarding logger.
func SetGlobal(l *Logger) {
	if l == nil {
		globalLogger = New(nil)
		return
	}
	globalLogger = l
}

// Global returns the process-wide logger.
func Global() *Logger {
	return globalLogger
}

// Emit writes one record through the global logger.
func Emit(level Level, ref uint8, args ...Arg) error {
	return globalLogger.Emit(level, ref, args...)
}

// Error emits a record at the Error level through the global logger.
func Error(ref uint8, args ...Arg) error {
	if !Enabled(LevelError) {
		return nil
	}
	return globalLogger.Emit(LevelError, ref, args...)
}

// Warn emits a record at the Warn level through the global logger.
func Warn(ref uint8, args ...Arg) error {
	if !Enabled(LevelWarn) {
		return nil
	}
	return globalLogger.Emit(LevelWarn, ref, args...)
}

// Info emits a record at the Info level through the global logger.
func Info(ref uint8, args ...Arg) error {
	if !Enabled(LevelInfo) {
		return nil
	}
	return globalLogger.Emit(LevelInfo, ref, args...)
}

// Debug emits a record at the Debug level through the global logger.
func Debug(ref uint8, args ...Arg) error {
	if !Enabled(LevelDebug) {
		return nil
	}
	return globalLogger.Emit(LevelDebug, ref, args...)
}

// Trace emits a record at the Trace level through the global logger.
func Trace(ref uint8, args ...Arg) error {
	if !Enabled(LevelTrace) {
		return nil
	}
	return globalLogger.Emit(LevelTrace, ref, args...)
}
