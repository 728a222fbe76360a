package support

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// AuditEntry is one line of the JSONL run history.
type AuditEntry struct {
	TimestampUtc string `json:"timestampUtc"`
	Mode         string `json:"mode"`
	CodeFile     string `json:"codeFile,omitempty"`
	SpecFile     string `json:"specFile,omitempty"`
	Pass         bool   `json:"pass"`
	Mismatches   int    `json:"mismatches"`
	Unresolved   int    `json:"unresolved,omitempty"`
	Result       string `json:"result,omitempty"`
}

// AppendAudit appends an entry to <outputDir>/audit.log.
func AppendAudit(outputDir string, entry AuditEntry) error {
	entry.TimestampUtc = time.Now().UTC().Format(time.RFC3339)
	path := filepath.Join(outputDir, "audit.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}
