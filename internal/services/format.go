package services

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatSize renders size in 1024-based units with two decimals, using
// the largest unit whose scaled value stays below 1024.
func FormatSize(size int64) string {
	value := float64(size)
	last := len(sizeUnits) - 1
	for _, unit := range sizeUnits[:last] {
		if value < 1024 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[last])
}
