package icon

import (
	"strconv"
	"strings"
)

// iconLocation is a parsed DefaultIcon value such as `shell32.dll,-3`.
type iconLocation struct {
	File  string
	Index int32
}

// parseIconLocation splits a "file,index" registry value. The index is
// optional, negative values are resource ids, and the file may be quoted.
// Values that point back at the document itself ("%1") are rejected.
func parseIconLocation(raw string) (iconLocation, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return iconLocation{}, false
	}

	var loc iconLocation
	file := value
	if idx := strings.LastIndex(value, ","); idx >= 0 {
		n, err := strconv.ParseInt(strings.TrimSpace(value[idx+1:]), 10, 32)
		if err == nil {
			file = value[:idx]
			loc.Index = int32(n)
		}
	}

	file = strings.Trim(strings.TrimSpace(file), `"`)
	if file == "" || file == "%1" {
		return iconLocation{}, false
	}
	loc.File = file
	return loc, true
}
