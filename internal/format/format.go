// Package format renders dashboard figures for display.
package format

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatValue scales value to thousands ("mil") or millions ("milhões")
// and prints it with two decimals in pt-BR notation, e.g. "R$ 1,50 mil".
func FormatValue(value float64, prefix string) string {
	for _, unit := range []string{"", "mil"} {
		if value < 1000 {
			return join(prefix, printer.Sprintf("%.2f", value), unit)
		}
		value /= 1000
	}
	return join(prefix, printer.Sprintf("%.2f", value), "milhões")
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
