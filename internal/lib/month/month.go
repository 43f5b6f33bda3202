// Package month names calendar months in Portuguese.
package month

import "time"

var names = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Name returns the lower-case Portuguese name of m, or "" when m is out of range.
func Name(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return names[m-1]
}
