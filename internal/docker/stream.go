package docker

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// pushRecord is one NDJSON record from the engine push stream.
type pushRecord struct {
	Status      string `json:"status"`
	Progress    string `json:"progress"`
	Error       string `json:"error"`
	ErrorDetail struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
}

// streamPushOutput decodes the engine push stream record by record. Progress
// records are forwarded to the logger; a record with an error field fails the
// push. Malformed records are logged as warnings and skipped.
func streamPushOutput(ctx context.Context, reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var msg pushRecord
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			log.Warn().Str("record", line).Msg("Unable to parse push output record")
			continue
		}

		if msg.Error != "" {
			return ErrPushFailed{Message: msg.Error}
		}

		if msg.Status != "" {
			log.Debug().
				Str("status", msg.Status).
				Str("progress", msg.Progress).
				Msg("Push progress")
		}
	}

	if err := scanner.Err(); err != nil {
		return ErrPushFailed{Message: err.Error()}
	}

	return nil
}
