package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"taskboard/app/models"
)

// EncodeTask renders t as a flat JSON object with keys in the order
// id, titulo, descricao, status, criadoEm.
func EncodeTask(t models.Task) ([]byte, error) {
	return json.Marshal(wireTask(t))
}

// EncodeTasks renders tasks as a JSON array. A nil slice encodes as [].
func EncodeTasks(tasks []models.Task) ([]byte, error) {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, wireTask(t))
	}
	return json.Marshal(out)
}

// Carriage returns never reach the wire.
func wireTask(t models.Task) models.Task {
	t.ID = stripCR(t.ID)
	t.Title = stripCR(t.Title)
	t.Description = stripCR(t.Description)
	t.Status = models.ClampStatus(int(t.Status))
	return t
}

func stripCR(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}

var errNotObject = errors.New("body is not a JSON object")

// Object is a decoded flat request body.
type Object map[string]string

// Fields decodes the top level of a JSON object body. String values are
// unquoted; every other value is kept as its raw text. When a key repeats,
// the first occurrence wins. A body that is not a single JSON object yields
// an empty Object.
func Fields(body []byte) Object {
	obj, err := decodeFields(body)
	if err != nil {
		return Object{}
	}
	return obj
}

func decodeFields(body []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errNotObject
	}

	obj := Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errNotObject
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if _, seen := obj[key]; seen {
			continue
		}
		v = bytes.TrimSpace(v)
		var s string
		if len(v) > 0 && v[0] == '"' && json.Unmarshal(v, &s) == nil {
			obj[key] = s
			continue
		}
		obj[key] = string(v)
	}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, errNotObject
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errNotObject
	}
	return obj, nil
}

// Get returns the value for key and whether it was present.
func (o Object) Get(key string) (string, bool) {
	v, ok := o[key]
	return v, ok
}
