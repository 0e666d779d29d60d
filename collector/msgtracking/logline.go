// SPDX-License-Identifier: GPL-3.0-or-later

package msgtracking

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// Message tracking log field reference:
// https://learn.microsoft.com/en-us/exchange/mail-flow/transport-logs/message-tracking

var (
	errEmptyLine          = errors.New("empty line")
	errBadDateTime        = errors.New("bad date-time")
	errBadSource          = errors.New("bad source")
	errBadEventID         = errors.New("bad event-id")
	errBadTotalBytes      = errors.New("bad total-bytes")
	errBadRecipientCount  = errors.New("bad recipient-count")
	errBadSenderAddress   = errors.New("bad sender-address")
	errUnverifiedEventID  = errors.New("no event-id")
	errUnverifiedDateTime = errors.New("no date-time")
)

func newEmptyLogLine() *logLine {
	var l logLine
	l.reset()
	return &l
}

type logLine struct {
	dateTime time.Time

	source  string
	eventID string

	totalBytes     int
	recipientCount int

	senderAddr string
}

const (
	fieldDateTime       = "date_time"
	fieldSource         = "source"
	fieldEventID        = "event_id"
	fieldTotalBytes     = "total_bytes"
	fieldRecipientCount = "recipient_count"
	fieldSenderAddress  = "sender_address"
)

func (l *logLine) Assign(field string, value string) (err error) {
	if value == "" {
		return
	}

	switch field {
	case fieldDateTime:
		err = l.assignDateTime(value)
	case fieldSource:
		err = l.assignSource(value)
	case fieldEventID:
		err = l.assignEventID(value)
	case fieldTotalBytes:
		err = l.assignTotalBytes(value)
	case fieldRecipientCount:
		err = l.assignRecipientCount(value)
	case fieldSenderAddress:
		err = l.assignSenderAddress(value)
	}
	return err
}

const hyphen = "-"

func (l *logLine) assignDateTime(value string) error {
	if value == hyphen {
		return nil
	}
	v, err := dateparse.ParseAny(value)
	if err != nil {
		return fmt.Errorf("assign '%s': %w", value, errBadDateTime)
	}
	l.dateTime = v
	return nil
}

func (l *logLine) assignSource(value string) error {
	if value == hyphen {
		return nil
	}
	if !reUpperToken.MatchString(value) {
		return fmt.Errorf("assign '%s': %w", value, errBadSource)
	}
	l.source = value
	return nil
}

func (l *logLine) assignEventID(value string) error {
	if value == hyphen {
		return nil
	}
	if !reUpperToken.MatchString(value) {
		return fmt.Errorf("assign '%s': %w", value, errBadEventID)
	}
	l.eventID = value
	return nil
}

func (l *logLine) assignTotalBytes(value string) error {
	if value == hyphen {
		return nil
	}
	v, err := strconv.Atoi(value)
	if err != nil || v < 0 {
		return fmt.Errorf("assign '%s': %w", value, errBadTotalBytes)
	}
	l.totalBytes = v
	return nil
}

func (l *logLine) assignRecipientCount(value string) error {
	if value == hyphen {
		return nil
	}
	v, err := strconv.Atoi(value)
	if err != nil || v < 0 {
		return fmt.Errorf("assign '%s': %w", value, errBadRecipientCount)
	}
	l.recipientCount = v
	return nil
}

func (l *logLine) assignSenderAddress(value string) error {
	if value == hyphen {
		return nil
	}
	l.senderAddr = value
	return nil
}

// event-id and source are uppercase tokens (DELIVER, SMTP, STOREDRIVER, ...)
var reUpperToken = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)

func (l *logLine) verify() error {
	if l.empty() {
		return fmt.Errorf("verify: %w", errEmptyLine)
	}
	if !l.hasEventID() {
		return fmt.Errorf("verify: %w", errUnverifiedEventID)
	}
	if !l.hasDateTime() {
		return fmt.Errorf("verify: %w", errUnverifiedDateTime)
	}
	return nil
}

func (l *logLine) empty() bool {
	return l.dateTime.IsZero() && l.source == "" && l.eventID == "" &&
		l.totalBytes == -1 && l.recipientCount == -1 && l.senderAddr == ""
}

func (l *logLine) hasDateTime() bool       { return !l.dateTime.IsZero() }
func (l *logLine) hasSource() bool         { return l.source != "" }
func (l *logLine) hasEventID() bool        { return l.eventID != "" }
func (l *logLine) hasTotalBytes() bool     { return l.totalBytes != -1 }
func (l *logLine) hasRecipientCount() bool { return l.recipientCount != -1 }
func (l *logLine) hasSenderAddress() bool  { return l.senderAddr != "" }

func (l *logLine) reset() {
	l.dateTime = time.Time{}
	l.source = ""
	l.eventID = ""
	l.totalBytes = -1
	l.recipientCount = -1
	l.senderAddr = ""
}
