package common

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatFloatWithComma 格式化 float64，带千分位，最多保留 decimals 位小数（末尾的 0 去掉）；
// NaN/Inf 返回 "-"
func FormatFloatWithComma(f float64, decimals int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "-"
	}
	d := decimal.NewFromFloat(f).Round(int32(decimals))

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	// 整数部分可能超过 int64，按字符串加千分位；小数部分保持 decimal 的最短表示
	intPart := d.Truncate(0)
	str := sign + groupDigits(intPart.String())

	frac := d.Sub(intPart).String()
	if idx := strings.IndexByte(frac, '.'); idx >= 0 {
		str += frac[idx:]
	}
	return str
}

func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	head := len(digits) % 3
	if head > 0 {
		sb.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

func FormatIntWithComma(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatEth 金额展示，缺失时返回 "-"
func FormatEth(amount *float64, decimals int) string {
	if amount == nil {
		return "-"
	}
	return FormatFloatWithComma(*amount, decimals)
}

// FormatCount 数量为 0 时显示 "-"
func FormatCount(n int64) string {
	if n == 0 {
		return "-"
	}
	return FormatIntWithComma(n)
}

// FormatPercentage 把比例（0.25）格式化为 "25%"，nil 返回 "-"
func FormatPercentage(ratio *float64) string {
	if ratio == nil {
		return "-"
	}
	pct := *ratio * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "-"
	}
	return FormatFloatWithComma(pct, 2) + "%"
}

// FloorDelta 地板价变化比例，任一为空或为 0 时返回 0
func FloorDelta(current, previous *float64) float64 {
	if current == nil || previous == nil || *current == 0 || *previous == 0 {
		return 0
	}
	return (*current - *previous) / *previous
}

// Truncate 按显示宽度截断，中文/emoji 名称也能对齐
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// TruncateAddress 0x1234…abcd
func TruncateAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
