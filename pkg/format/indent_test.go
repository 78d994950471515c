package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/embedls/pkg/document"
	"github.com/walteh/embedls/pkg/lsp/protocol"
)

func TestRepairSpan(t *testing.T) {
	tests := []struct {
		name       string
		spanText   string
		baseIndent string
		want       string
	}{
		{
			name:       "base indent applied uniformly to interior lines",
			spanText:   "<div>\na\nb\n</div>",
			baseIndent: "  ",
			want:       "<div>\n  a\n  b\n  </div>",
		},
		{
			name:       "removal indent replaced by base indent",
			spanText:   "<div>\n    a\n    b\n    </div>",
			baseIndent: "\t",
			want:       "<div>\n\ta\n\tb\n\t</div>",
		},
		{
			name:       "shallower lines prefixed with stripped base",
			spanText:   "<div>\n  deep\nshallow\n  </div>",
			baseIndent: "    ",
			want:       "<div>\n    deep\n  shallow\n    </div>",
		},
		{
			name:       "empty interior lines untouched",
			spanText:   "<div>\n\na\n</div>",
			baseIndent: "  ",
			want:       "<div>\n\n  a\n  </div>",
		},
		{
			name:       "single line unchanged",
			spanText:   "<div>x</div>",
			baseIndent: "  ",
			want:       "<div>x</div>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairSpan(tt.spanText, tt.baseIndent))
		})
	}
}

func TestApplyEditsSameOffsetInsertsKeepOrder(t *testing.T) {
	doc := document.NewDocument("Widget.vue", "vue", 1, "ab")
	at := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 1},
		End:   protocol.Position{Line: 0, Character: 1},
	}
	next := applyEdits(doc, []protocol.TextEdit{
		{Range: at, NewText: "X"},
		{Range: at, NewText: "Y"},
	})
	assert.Equal(t, "aXYb", next.Text)
}

func TestBaseIndentAt(t *testing.T) {
	text := "zero\n  two<span>\n\tone\n"
	assert.Equal(t, "", baseIndentAt(text, 2))
	assert.Equal(t, "  ", baseIndentAt(text, 10))
	assert.Equal(t, "\t", baseIndentAt(text, 18))
}
