//go:build binlog_info && !binlog_off && !binlog_error && !binlog_warn

package binlog

const maxLevel = int8(LevelInfo)
