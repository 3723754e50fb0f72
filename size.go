package ddbclear

import (
	"fmt"
)

const KB_UNIT = 1000
const MB_UNIT = 1000000
const GB_UNIT = 1000000000

func PrettyPrintBytes(size int) string {
	switch {
	case size >= GB_UNIT:
		return fmt.Sprintf("%.2f GB", float64(size)/GB_UNIT)
	case size >= MB_UNIT:
		return fmt.Sprintf("%.2f MB", float64(size)/MB_UNIT)
	case size >= KB_UNIT:
		return fmt.Sprintf("%.2f KB", float64(size)/KB_UNIT)
	default:
		return fmt.Sprintf("%.2f B", float64(size))
	}
}
