//go:build go1.18

package css_lexer

import (
	"testing"

	"github.com/evanw/csscolor/internal/logger"
	"github.com/evanw/csscolor/internal/test"
)

func FuzzTokenize(f *testing.F) {
	f.Add([]byte(`rgb(from red r g b / alpha)`))
	f.Add([]byte(`color-mix(in oklch longer hue, red 30%, blue)`))
	f.Add([]byte(`calc(100% - 2px)`))
	f.Add([]byte(`var(--a, var(--b, #fff))`))
	f.Add([]byte(`"unclosed string`))
	f.Add([]byte(`/* unclosed comment`))
	f.Add([]byte(`\72\65\64`))
	f.Add([]byte(`1e 1e3 1.x -.5%`))

	f.Fuzz(func(t *testing.T, data []byte) {
		contents := string(data)
		for _, token := range Tokenize(logger.NewDeferLog(logger.LevelNone), test.SourceForTest(contents)) {
			token.DecodedText(contents)
			token.Value(contents)
			token.Unit(contents)
		}
	})
}
