package worker

import (
	"bufio"
	"io"
	"strings"
)

// ReadInputs reads one input per line from r. Surrounding whitespace is
// trimmed; blank lines and lines starting with '#' are dropped.
func ReadInputs(r io.Reader) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}
