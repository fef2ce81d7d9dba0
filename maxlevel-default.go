//go:build !binlog_off && !binlog_error && !binlog_warn && !binlog_info && !binlog_debug

package binlog

// Default build: every severity compiled in.
const maxLevel = int8(LevelTrace)
