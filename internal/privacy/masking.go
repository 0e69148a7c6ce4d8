package privacy

import (
	"strings"
)

// MaskPhoneNumber masks a phone number showing only the last 4 digits.
// Example: "+1234567890" -> "+******7890"
func MaskPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		if len(phone) == 1 {
			return phone
		}
		if len(phone) <= 5 {
			return "+" + strings.Repeat("*", len(phone)-1)
		}
		return "+" + strings.Repeat("*", len(phone)-5) + phone[len(phone)-4:]
	}

	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// MaskName masks a contact name keeping only the first rune of each word.
// Example: "Sarah Johnson" -> "S**** J******"
func MaskName(name string) string {
	if name == "" {
		return ""
	}
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(w)
		if len(runes) > 1 {
			words[i] = string(runes[0]) + strings.Repeat("*", len(runes)-1)
		}
	}
	return strings.Join(words, " ")
}

// MaskMessageContent truncates message content for logs, keeping a short
// prefix so log lines stay correlatable without leaking the full text.
func MaskMessageContent(content string) string {
	const keep = 8
	runes := []rune(content)
	if len(runes) <= keep {
		return content
	}
	return string(runes[:keep]) + "..."
}
