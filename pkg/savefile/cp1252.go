package savefile

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// decodeWindows1252 transcodes a legacy save member to UTF-8. EU4-era
// saves predate the engine's UTF-8 switch.
func decodeWindows1252(data []byte) (string, error) {
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding windows-1252 member: %w", err)
	}
	return string(decoded), nil
}
