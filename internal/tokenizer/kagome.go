package tokenizer

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// kagomeSegmenter wraps the kagome morphological analyzer with the
// bundled IPADIC dictionary.
type kagomeSegmenter struct {
	t *tokenizer.Tokenizer
}

func newKagomeSegmenter() (Segmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &kagomeSegmenter{t: t}, nil
}

func (k *kagomeSegmenter) Segment(sentence string) ([]Token, error) {
	if sentence == "" {
		return nil, nil
	}
	ktoks := k.t.Tokenize(sentence)
	out := make([]Token, 0, len(ktoks))
	for _, kt := range ktoks {
		base, ok := kt.BaseForm()
		if !ok || base == "*" {
			base = kt.Surface
		}
		reading, _ := kt.Reading()
		pron, _ := kt.Pronunciation()
		out = append(out, Token{
			Surface:       kt.Surface,
			Reading:       reading,
			BaseForm:      base,
			POS:           strings.Join(kt.POS(), ","),
			Pronunciation: pron,
		})
	}
	return out, nil
}
