package datasource

import (
	"encoding/json"
	"fmt"

	"github.com/MeKo-Christian/go-overpass"
)

// UnmarshalOverpassJSON decodes a raw Overpass API JSON response. Useful for
// replaying saved responses in tests or offline tooling.
func UnmarshalOverpassJSON(data []byte) (*overpass.Result, error) {
	var result overpass.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal overpass json: %w", err)
	}
	return &result, nil
}
