//go:build binlog_error && !binlog_off

package binlog

const maxLevel = int8(LevelError)
