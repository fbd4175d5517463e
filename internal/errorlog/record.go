package errorlog

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// LogType tags a record with the category of the file it came from.
type LogType string

const (
	WordPress LogType = "WordPress"
	Server    LogType = "Server"
)

// NoFile is the File value when no source reference could be found.
const NoFile = "N/A"

// Record is one normalized error line.
type Record struct {
	ID       string  `json:"id"`
	DateTime string  `json:"datetime"`
	LogType  LogType `json:"log_type"`
	Level    string  `json:"level"`
	Message  string  `json:"message"`
	File     string  `json:"file"`
}

// Fields returns the record's values in column order, matching FieldNames.
func (r Record) Fields() []string {
	return []string{r.ID, r.DateTime, string(r.LogType), r.Level, r.Message, r.File}
}

// FieldNames lists the exported column names in order.
func FieldNames() []string {
	return []string{"id", "datetime", "log_type", "level", "message", "file"}
}

// LineID derives a record id from the raw line.
func LineID(line string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(line)))
	return hex.EncodeToString(sum[:])
}
