package pricing

import "strconv"

var financialDigits = []string{"", "壹", "貳", "參", "肆", "伍", "陸", "柒", "捌", "玖"}

// CategoryCode returns the financial numeral used to label the n-th category
// (1 → 壹, 10 → 拾, 11 → 拾壹, 25 → 貳拾伍). Values outside 1..99 fall back to
// decimal digits.
func CategoryCode(n int) string {
	switch {
	case n <= 0 || n > 99:
		return strconv.Itoa(n)
	case n < 10:
		return financialDigits[n]
	}
	tens, ones := n/10, n%10
	code := "拾"
	if tens > 1 {
		code = financialDigits[tens] + code
	}
	return code + financialDigits[ones]
}
