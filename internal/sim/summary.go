package sim

import (
	"encoding/json"
	"os"
)

func writeSummary(path string, s *RunSummary) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
