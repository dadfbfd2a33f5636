package batch

import (
	"encoding/json"
	"math"
	"os"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index   int      `json:"index"`
	Elapsed float64  `json:"elapsed"` // seconds
	Ratio   *float64 `json:"ratio,omitempty"`
	Image   string   `json:"image"`
}

// WriteManifest writes manifest.json listing the successfully rendered
// frames. Non-finite scroll ratios are left out of their entry.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		e := ManifestEntry{
			Index:   r.Index,
			Elapsed: r.Elapsed.Seconds(),
			Image:   r.Image,
		}
		if !math.IsNaN(r.Ratio) && !math.IsInf(r.Ratio, 0) {
			ratio := r.Ratio
			e.Ratio = &ratio
		}
		entries = append(entries, e)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
