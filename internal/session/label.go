package session

import "fmt"

const labelFormat = "%dx%d"

// label is the resolution text, e.g. "72x40".
func label(width, height int) string {
	return fmt.Sprintf(labelFormat, width, height)
}
