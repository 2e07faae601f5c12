// Package query extracts values from JSON and XML documents.
package query

import (
	"bytes"

	"github.com/PaesslerAG/jsonpath"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	json "github.com/goccy/go-json"

	"github.com/fullstack-project/fullstack-go/internal/logger"
)

// JSONPath evaluates expr against a JSON document.
func JSONPath(doc []byte, expr string) (interface{}, bool) {
	var data interface{}
	if err := json.Unmarshal(doc, &data); err != nil {
		logger.Debugf("failed to unmarshal JSON data: %v", err)
		return nil, false
	}
	result, err := jsonpath.Get(expr, data)
	if err != nil {
		logger.Debugf("failed to evaluate JSONPath %s: %v", expr, err)
		return nil, false
	}
	return result, true
}

// XPath evaluates expr against an XML document and returns the inner text
// of the first match. No match is an empty result, not a failure.
func XPath(doc []byte, expr string, namespaces map[string]string) (string, bool) {
	root, err := xmlquery.Parse(bytes.NewReader(doc))
	if err != nil {
		logger.Debugf("failed to parse XML data: %v", err)
		return "", false
	}

	if namespaces == nil {
		namespaces = map[string]string{}
	}
	compiled, err := xpath.CompileWithNS(expr, namespaces)
	if err != nil {
		logger.Debugf("failed to compile XPath %s: %v", expr, err)
		return "", false
	}

	node := xmlquery.QuerySelector(root, compiled)
	if node == nil {
		return "", true
	}
	return node.InnerText(), true
}
