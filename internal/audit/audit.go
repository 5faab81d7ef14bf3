package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/PolarWolf314/hush/internal/configs"
	kerrors "github.com/PolarWolf314/hush/internal/errors"
)

// Operation names recorded in the audit log.
const (
	OpEncrypt    = "encrypt"
	OpDecrypt    = "decrypt"
	OpKeysInit   = "keys.init"
	OpRegenerate = "keys.regenerate"
)

// Status values recorded in the audit log.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry. It never carries plaintext,
// ciphertext or key material.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Local username.
	Operation string `json:"op"`
	Status    string `json:"status"`

	KeyFingerprint string `json:"key_fingerprint,omitempty"`
	InputBytes     int    `json:"input_bytes,omitempty"`
	OutputBytes    int    `json:"output_bytes,omitempty"`
	Error          string `json:"error,omitempty"` // Presented message, never a wrapped cause.
}

// NewEntry returns an entry for op with the user and ID populated.
func NewEntry(op string) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Operation: op,
		Status:    StatusOK,
	}
	if configs.UserHushSettings != nil {
		entry.User = configs.UserHushSettings.Username
	}
	return entry
}

// Fail marks the entry as failed with the message shown to the user.
func (e *Entry) Fail(message string) {
	e.Status = StatusFailed
	e.Error = message
}

// Log appends an entry to the audit log.
// Logging is best-effort: failures are swallowed so that the operation
// being audited never fails because of them.
func Log(entry Entry) {
	if !Enabled() {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	logPath := LogPath()
	if logPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// Enabled reports whether audit logging is switched on in config.toml.
func Enabled() bool {
	if configs.GlobalUserConfig == nil {
		return true
	}
	return !configs.GlobalUserConfig.Audit.Disabled
}

// LogPath returns the path to the audit log file.
// Returns empty string if settings are not initialized.
func LogPath() string {
	if configs.UserHushSettings == nil {
		return ""
	}
	return configs.UserHushSettings.AuditLogPath()
}

// ReadEntries reads all entries from the audit log.
// Returns ErrNoAuditLog if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, kerrors.ErrNoAuditLog
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, kerrors.ErrNoAuditLog
	}
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	return ParseEntries(data)
}

// Tail returns the last n entries, or all of them when n <= 0.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
