package compose

import (
	"strings"
)

// itemDataSentinel prefixes structured metadata smuggled through a
// completion item's free-text documentation field. It must be stripped
// before the item reaches the caller.
const itemDataSentinel = "\x00embedls-item\x00"

// ItemDataKind tags what a completion item denotes.
type ItemDataKind string

const (
	ItemComponentTag   ItemDataKind = "componentTag"
	ItemComponentProp  ItemDataKind = "componentProp"
	ItemComponentEvent ItemDataKind = "componentEvent"
)

// ItemData is the decoded metadata, e.g. "prop foo of component Bar".
type ItemData struct {
	Kind ItemDataKind
	Args []string
}

// EncodeItemData appends encoded metadata to a documentation string.
func EncodeItemData(doc string, data ItemData) string {
	parts := append([]string{string(data.Kind)}, data.Args...)
	return doc + itemDataSentinel + strings.Join(parts, ",")
}

// decodeItemData splits documentation into its visible text and the encoded
// metadata, if any.
func decodeItemData(doc string) (string, *ItemData) {
	idx := strings.Index(doc, itemDataSentinel)
	if idx < 0 {
		return doc, nil
	}
	visible := doc[:idx]
	parts := strings.Split(doc[idx+len(itemDataSentinel):], ",")
	if len(parts) == 0 || parts[0] == "" {
		return visible, nil
	}
	return visible, &ItemData{
		Kind: ItemDataKind(parts[0]),
		Args: parts[1:],
	}
}
