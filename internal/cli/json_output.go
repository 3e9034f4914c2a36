// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// jsonEnvelope is the wire shape of every --json response, so scripts
// can check one success field regardless of command.
type jsonEnvelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"`
	Command   string      `json:"command,omitempty"`
}

// writeJSON emits a successful envelope.
func writeJSON(w io.Writer, command string, data interface{}) error {
	return encodeEnvelope(w, jsonEnvelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	})
}

// writeJSONError emits a failed envelope.
func writeJSONError(w io.Writer, command string, err error) error {
	msg := err.Error()
	return encodeEnvelope(w, jsonEnvelope{
		Success:   false,
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	})
}

func encodeEnvelope(w io.Writer, env jsonEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
