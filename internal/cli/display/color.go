// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package display

import (
	"strconv"

	"github.com/fatih/color"
	gkcolor "github.com/gookit/color"
)

func Gold(s string) string {
	return gkcolor.RGB(181, 181, 91).Sprint(s)
}

func Green(s string) string {
	return gkcolor.FgGreen.Sprint(s)
}

func Grey(s string) string {
	return gkcolor.RGB(138, 138, 138).Sprint(s)
}

func LightBlue(s string) string {
	return gkcolor.HiBlue.Sprint(s)
}

func Red(s string) string {
	return gkcolor.FgRed.Sprint(s)
}
func Redf(s string, args ...any) string {
	return gkcolor.FgRed.Sprintf(s, args...)
}

var (
	zeroCount    = color.New(color.FgGreen)
	nonZeroCount = color.New(color.FgYellow, color.Bold)
	failedCount  = color.New(color.FgRed, color.Bold)
)

// Count highlights n: green when nothing needs attention, bold yellow otherwise.
func Count(n int) string {
	if n == 0 {
		return zeroCount.Sprint(strconv.Itoa(n))
	}
	return nonZeroCount.Sprint(strconv.Itoa(n))
}

// FailedCount is like Count but flags any non-zero value in red.
func FailedCount(n int) string {
	if n == 0 {
		return zeroCount.Sprint(strconv.Itoa(n))
	}
	return failedCount.Sprint(strconv.Itoa(n))
}
