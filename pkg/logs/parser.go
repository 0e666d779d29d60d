// SPDX-License-Identifier: GPL-3.0-or-later

package logs

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

type LogType string

const (
	TypeCSV    LogType = "csv"
	TypeLTSV   LogType = "ltsv"
	TypeRegExp LogType = "regexp"
	TypeJSON   LogType = "json"
)

// LogLine is a single parsed line. Parsers call Assign for every
// extracted field.
type LogLine interface {
	Assign(name string, value string) error
}

type Parser interface {
	ReadLine(LogLine) error
	Parse(row []byte, line LogLine) error
	Info() string
}

type ParserConfig struct {
	LogType LogType      `yaml:"log_type,omitempty" json:"log_type"`
	CSV     CSVConfig    `yaml:"csv_config,omitempty" json:"csv_config"`
	LTSV    LTSVConfig   `yaml:"ltsv_config,omitempty" json:"ltsv_config"`
	RegExp  RegExpConfig `yaml:"regexp_config,omitempty" json:"regexp_config"`
	JSON    JSONConfig   `yaml:"json_config,omitempty" json:"json_config"`
}

func NewParser(config ParserConfig, in io.Reader) (Parser, error) {
	switch config.LogType {
	case TypeCSV:
		return NewCSVParser(config.CSV, in)
	case TypeLTSV:
		return NewLTSVParser(config.LTSV, in)
	case TypeRegExp:
		return NewRegExpParser(config.RegExp, in)
	case TypeJSON:
		return NewJSONParser(config.JSON, in)
	default:
		return nil, fmt.Errorf("invalid log type: %q", config.LogType)
	}
}

// ParseError marks a line the parser understood but could not match
// against the configured format. It is recoverable: the caller should
// count the line and continue reading.
type ParseError struct {
	msg string
	err error
}

func (e ParseError) Error() string { return e.msg }

func (e ParseError) Unwrap() error { return e.err }

func IsParseError(err error) bool {
	var v *ParseError
	return errors.As(err, &v)
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
