package serverfn

import (
	"fmt"
	"mime"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
	ContentTypeForm    = "application/x-www-form-urlencoded"
)

// Encoding serialises server function arguments and results.
type Encoding interface {
	ContentType() string
	Decode(data []byte, v interface{}) error
	Encode(v interface{}) ([]byte, error)
}

type jsonEncoding struct{}

func (jsonEncoding) ContentType() string                     { return ContentTypeJSON }
func (jsonEncoding) Decode(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (jsonEncoding) Encode(v interface{}) ([]byte, error)    { return json.Marshal(v) }

type msgpackEncoding struct{}

func (msgpackEncoding) ContentType() string                     { return ContentTypeMsgpack }
func (msgpackEncoding) Decode(data []byte, v interface{}) error { return msgpack.Unmarshal(data, v) }
func (msgpackEncoding) Encode(v interface{}) ([]byte, error)    { return msgpack.Marshal(v) }

// formEncoding decodes url-encoded arguments into a map[string]string.
// Functions taking struct{} ignore them.
// Results are encoded as JSON since forms have no nested structure.
type formEncoding struct{}

func (formEncoding) ContentType() string { return ContentTypeJSON }

func (formEncoding) Decode(data []byte, v interface{}) error {
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return err
	}
	return decodeValues(values, v)
}

func (formEncoding) Encode(v interface{}) ([]byte, error) { return json.Marshal(v) }

func decodeValues(values url.Values, v interface{}) error {
	switch target := v.(type) {
	case *map[string]string:
		m := make(map[string]string, len(values))
		for k := range values {
			m[k] = values.Get(k)
		}
		*target = m
		return nil
	case *url.Values:
		*target = values
		return nil
	case *struct{}:
		return nil
	default:
		return fmt.Errorf("form arguments require map[string]string or url.Values, got %T", v)
	}
}

// encodingFor selects the encoding for a request content type. An empty
// content type selects JSON.
func encodingFor(contentType string) (Encoding, error) {
	if contentType == "" {
		return jsonEncoding{}, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("invalid content type %q: %w", contentType, err)
	}
	switch strings.ToLower(mediaType) {
	case ContentTypeJSON, "text/json":
		return jsonEncoding{}, nil
	case ContentTypeMsgpack, "application/x-msgpack":
		return msgpackEncoding{}, nil
	case ContentTypeForm:
		return formEncoding{}, nil
	default:
		return nil, fmt.Errorf("unsupported content type %q", mediaType)
	}
}
