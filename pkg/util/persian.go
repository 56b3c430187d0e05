package util

import "strings"

var digitReplacer = strings.NewReplacer(
	// Persian digits
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	// Arabic-Indic digits
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// NormalizeDigits converts Persian and Arabic-Indic digits to ASCII
func NormalizeDigits(s string) string {
	return digitReplacer.Replace(s)
}

// NormalizePhone normalizes a phone number to the local 0-prefixed form
// and converts non-ASCII digits along the way.
func NormalizePhone(phone string) string {
	phone = NormalizeDigits(phone)
	phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)

	switch {
	case strings.HasPrefix(phone, "+98"):
		return "0" + phone[3:]
	case strings.HasPrefix(phone, "0098"):
		return "0" + phone[4:]
	case strings.HasPrefix(phone, "98") && len(phone) == 12:
		return "0" + phone[2:]
	}
	return phone
}

// SearchVariants expands a query into its Persian/Arabic letter spellings so
// that text typed with either keyboard matches rows stored with the other.
// The variants always include the input itself.
func SearchVariants(query string) []string {
	persian := strings.NewReplacer("ي", "ی", "ك", "ک").Replace(query)
	arabic := strings.NewReplacer("ی", "ي", "ک", "ك").Replace(query)

	variants := []string{query}
	for _, v := range []string{persian, arabic} {
		if v != query {
			variants = append(variants, v)
		}
	}
	return variants
}
