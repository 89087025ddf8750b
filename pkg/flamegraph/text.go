package flamegraph

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ellipsis = "…"

var countPrinter = message.NewPrinter(language.English)

// CropText shortens s so that it fits into maxWidth, assuming every rune is
// charWidth wide. Cropped labels end in an ellipsis; labels that would keep
// fewer than two runes are dropped entirely.
func CropText(s string, charWidth, maxWidth float64) string {
	if charWidth <= 0 {
		return s
	}
	n := utf8.RuneCountInString(s)
	if float64(n)*charWidth <= maxWidth {
		return s
	}
	keep := int(math.Floor(maxWidth/charWidth)) - 1
	if keep < 2 {
		return ""
	}
	runes := []rune(s)
	return string(runes[:keep]) + ellipsis
}

// WrapText splits s into lines no wider than maxWidth.
func WrapText(s string, charWidth, maxWidth float64) []string {
	if charWidth <= 0 {
		return []string{s}
	}
	perLine := int(math.Floor(maxWidth / charWidth))
	runes := []rune(s)
	if perLine < 1 || len(runes) <= perLine {
		return []string{s}
	}
	var lines []string
	for len(runes) > perLine {
		lines = append(lines, string(runes[:perLine]))
		runes = runes[perLine:]
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return lines
}

// DisplaySize formats a weight for labels. Byte sizes ("B") use 1024 steps
// up to G, other units 1000 steps; an empty unit prints a plain grouped
// count.
func DisplaySize(size int64, unit string) string {
	if unit == "" {
		return countPrinter.Sprintf("%d", size)
	}
	if size == 0 {
		return "0 " + unit
	}

	step := 1000.0
	if unit == "B" {
		step = 1024
	}
	prefixes := []string{"", "K", "M", "G"}

	abs := math.Abs(float64(size))
	idx := int(math.Log(abs) / math.Log(step))
	if idx < 0 {
		idx = 0
	}
	if idx > len(prefixes)-1 {
		idx = len(prefixes) - 1
	}
	div := math.Pow(step, float64(idx))

	var value string
	if math.Mod(float64(size), div) == 0 {
		value = strconv.FormatFloat(float64(size)/div, 'f', -1, 64)
	} else {
		value = fmt.Sprintf("%.2f", float64(size)/div)
	}
	return fmt.Sprintf("%s %s%s", value, prefixes[idx], unit)
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
