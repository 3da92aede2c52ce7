package driver

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ff7tools/terraform/terrerr"
)

// messageSeparator is the exact sniff terraform.py/parser.py use to split
// a dumped messages.txt back into individual message bodies
// ("line[:8] == '---[ MES'").
const messageSeparator = "---[ MES"

func writeMessagesFile(path string, messages []string) error {
	var b strings.Builder
	for i, m := range messages {
		fmt.Fprintf(&b, "---[ MESSAGE ID %d:\n%s\n", i, m)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("driver: writing %s: %w: %v", path, terrerr.IO, err)
	}
	return nil
}

func readMessagesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: reading %s: %w: %v", path, terrerr.IO, err)
	}
	data = bytes.TrimSuffix(data, []byte("\n"))

	var messages []string
	var cur []string
	started := false
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, messageSeparator) {
			if started {
				messages = append(messages, strings.Join(cur, "\n"))
			}
			cur = nil
			started = true
			continue
		}
		if started {
			cur = append(cur, line)
		}
	}
	if started {
		messages = append(messages, strings.Join(cur, "\n"))
	}
	return messages, nil
}
