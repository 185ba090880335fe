/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strconv"
)

const sizeUnits = "kMGTPE"

// humanReadableSize formats n bytes in SI units, e.g. "1.5 kB".
func humanReadableSize(n int64) string {
	if n < 1000 {
		return strconv.FormatInt(n, 10) + " B"
	}

	size := float64(n)
	unit := -1
	for size >= 1000 && unit < len(sizeUnits)-1 {
		size /= 1000
		unit++
	}

	return strconv.FormatFloat(size, 'f', 1, 64) + " " + string(sizeUnits[unit]) + "B"
}
