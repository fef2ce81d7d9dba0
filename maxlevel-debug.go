//go:build binlog_debug && !binlog_off && !binlog_error && !binlog_warn && !binlog_info

package binlog

const maxLevel = int8(LevelDebug)
