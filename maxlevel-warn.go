//go:build binlog_warn && !binlog_off && !binlog_error

package binlog

const maxLevel = int8(LevelWarn)
