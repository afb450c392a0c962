package resource

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wosatec/PDF-Generator/query"
)

// DocumentContentsKey is the reserved root key of the data document that
// holds document content records.
const DocumentContentsKey = "documentContents"

// DocumentContent carries pre-encoded image payloads for one document.
type DocumentContent struct {
	ID           uuid.UUID
	Base64Small  string
	Base64Medium string
}

// DocumentContents indexes records by id.
type DocumentContents map[uuid.UUID]DocumentContent

// LoadDocumentContents reads the records under the reserved root key. A
// missing key yields no records; a later record with the same id replaces
// an earlier one.
func LoadDocumentContents(root *query.Value) (DocumentContents, error) {
	out := DocumentContents{}
	if _, ok := root.Get(DocumentContentsKey); !ok {
		return out, nil
	}
	recs, err := query.FindDataArray(root, DocumentContentsKey, asDocumentContent)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.ID == uuid.Nil {
			continue
		}
		out[rec.ID] = rec
	}
	return out, nil
}

// asDocumentContent binds {id, base64Small, base64Medium}. A null record is
// ignored.
func asDocumentContent(v *query.Value) (DocumentContent, error) {
	if v.IsNull() {
		return DocumentContent{}, nil
	}
	if v.Kind() != query.Object {
		return DocumentContent{}, &query.BindError{Want: "document content", Got: v.Kind()}
	}

	field := func(key string) (string, error) {
		prop, ok := v.Get(key)
		if !ok {
			return "", nil
		}
		s, err := query.AsOptionalString(prop)
		if err != nil {
			return "", &query.BindError{Want: "string " + key, Got: prop.Kind()}
		}
		return s, nil
	}

	rawID, err := field("id")
	if err != nil {
		return DocumentContent{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return DocumentContent{}, &query.BindError{Want: "uuid id", Got: query.String, Err: fmt.Errorf("%q: %w", rawID, err)}
	}
	small, err := field("base64Small")
	if err != nil {
		return DocumentContent{}, err
	}
	medium, err := field("base64Medium")
	if err != nil {
		return DocumentContent{}, err
	}
	return DocumentContent{ID: id, Base64Small: small, Base64Medium: medium}, nil
}
