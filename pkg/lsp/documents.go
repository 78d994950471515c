package lsp

import (
	"strings"
	"sync"

	"github.com/walteh/embedls/pkg/document"
)

// normalizeURI ensures consistent URI handling by removing the file://
// prefix if present
func normalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "file:")
	return uri
}

// DocumentManager handles composite document storage. Each stored value is
// an immutable version; updates replace the pointer.
type DocumentManager struct {
	store *sync.Map // map[string]*document.Document
}

func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		store: &sync.Map{},
	}
}

func (m *DocumentManager) Get(uri string) (*document.Document, bool) {
	v, ok := m.store.Load(normalizeURI(uri))
	if !ok {
		return nil, false
	}
	doc, ok := v.(*document.Document)
	return doc, ok
}

func (m *DocumentManager) Store(doc *document.Document) {
	m.store.Store(normalizeURI(doc.URI), doc)
}

func (m *DocumentManager) Delete(uri string) {
	m.store.Delete(normalizeURI(uri))
}
