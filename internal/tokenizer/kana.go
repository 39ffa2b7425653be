package tokenizer

// IsKanji reports whether r falls in the common CJK unified ideograph range.
func IsKanji(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FAF
}

// KatakanaToHiragana converts katakana runes to hiragana, leaving
// everything else untouched.
func KatakanaToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
