package lookup

import (
	"strconv"
	"strings"
)

// NormalizeISBN 只保留数字和X,X统一为大写
func NormalizeISBN(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'X' || r == 'x':
			b.WriteByte('X')
		}
	}
	return b.String()
}

// ValidateISBN 规范化并校验长度(10或13位)
// 只校验长度,不校验校验位
func ValidateISBN(raw string) (string, error) {
	isbn := NormalizeISBN(raw)
	if len(isbn) != 10 && len(isbn) != 13 {
		return "", ErrInvalidISBN
	}
	return isbn, nil
}

// CleanISBN 入库前清洗ISBN
// 规范化后长度合法则保存规范形式,否则保留原文(去首尾空白)
func CleanISBN(raw string) string {
	if isbn, err := ValidateISBN(raw); err == nil {
		return isbn
	}
	return strings.TrimSpace(raw)
}

// ISBN13To10 978前缀的ISBN-13转ISBN-10
// 取第4-12位,权重10..2加权求和,校验位 = (11 - sum%11) % 11,10记为X
// 979前缀没有对应的ISBN-10,返回false
func ISBN13To10(isbn13 string) (string, bool) {
	if len(isbn13) != 13 || !strings.HasPrefix(isbn13, "978") {
		return "", false
	}

	base := isbn13[3:12]
	sum := 0
	for i := 0; i < 9; i++ {
		d := base[i]
		if d < '0' || d > '9' {
			return "", false
		}
		sum += int(d-'0') * (10 - i)
	}

	check := (11 - sum%11) % 11
	if check == 10 {
		return base + "X", true
	}
	return base + strconv.Itoa(check), true
}
