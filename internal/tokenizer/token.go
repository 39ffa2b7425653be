package tokenizer

// Token is a morphologically segmented unit of a cue sentence.
type Token struct {
	Surface       string `json:"surface"`
	Reading       string `json:"reading,omitempty"` // katakana; empty when the dictionary has none
	BaseForm      string `json:"base_form"`
	POS           string `json:"pos"`
	Pronunciation string `json:"pronunciation,omitempty"`
}

// FallbackPOS tags tokens produced by the per-character degradation path.
const FallbackPOS = "名詞,一般,*,*"

// FallbackTokens degrades a sentence to one token per rune so that
// token-level interaction keeps working when morphological analysis is
// unavailable. Surface, reading and base form all equal the character.
func FallbackTokens(sentence string) []Token {
	runes := []rune(sentence)
	out := make([]Token, 0, len(runes))
	for _, r := range runes {
		c := string(r)
		out = append(out, Token{
			Surface:       c,
			Reading:       c,
			BaseForm:      c,
			POS:           FallbackPOS,
			Pronunciation: c,
		})
	}
	return out
}

// NeedsFurigana reports whether the token should display a phonetic
// annotation: it has a reading, the reading differs from the surface,
// and the surface contains at least one kanji.
func (t Token) NeedsFurigana() bool {
	if t.Reading == "" || t.Reading == t.Surface {
		return false
	}
	for _, r := range t.Surface {
		if IsKanji(r) {
			return true
		}
	}
	return false
}

// Furigana returns the token's reading converted to hiragana for display.
func (t Token) Furigana() string {
	return KatakanaToHiragana(t.Reading)
}
