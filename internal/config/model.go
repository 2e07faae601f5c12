package config

// Response is a static server function result
type Response struct {
	Content    string            `yaml:"content"`
	StatusCode int               `yaml:"statusCode"`
	File       string            `yaml:"file"`
	Headers    map[string]string `yaml:"headers"`

	// Template enables ${...} placeholders in the content and headers.
	Template bool `yaml:"template"`
}

// Script is a JavaScript server function body
type Script struct {
	Code string `yaml:"code"`
	File string `yaml:"file"`
}

// Remote forwards the invocation to an upstream HTTP service. URL, Body and
// header values may contain template placeholders.
type Remote struct {
	URL     string            `yaml:"url"`
	Method  string            `yaml:"method"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body"`
	Timeout string            `yaml:"timeout"`
}

// RequestBodyKey selects part of the request body
type RequestBodyKey struct {
	JSONPath      string            `yaml:"jsonPath"`
	XPath         string            `yaml:"xPath"`
	XMLNamespaces map[string]string `yaml:"xmlNamespaces"`
}

// CaptureKey selects a value from the request. The first non-empty field
// wins.
type CaptureKey struct {
	QueryParam    string          `yaml:"queryParam"`
	FormParam     string          `yaml:"formParam"`
	RequestHeader string          `yaml:"requestHeader"`
	Expression    string          `yaml:"expression"`
	Const         string          `yaml:"const"`
	RequestBody   *RequestBodyKey `yaml:"requestBody"`
}

// Capture saves a value from the request into a store before the function
// runs.
type Capture struct {
	Enabled *bool  `yaml:"enabled"`
	Store   string `yaml:"store"`

	// Key names the stored item; the capture's name is used when unset.
	Key *CaptureKey `yaml:"key"`

	CaptureKey `yaml:",inline"`
}

// IsEnabled reports whether the capture runs. Captures are on by default.
func (c Capture) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Function declares a server function
type Function struct {
	Path     string             `yaml:"path"`
	Method   string             `yaml:"method"`
	Response *Response          `yaml:"response"`
	Script   *Script            `yaml:"script"`
	Remote   *Remote            `yaml:"remote"`
	Capture  map[string]Capture `yaml:"capture"`
}

// StoreDefinition represents a store configuration
type StoreDefinition struct {
	PreloadFile string                 `yaml:"preloadFile"`
	PreloadData map[string]interface{} `yaml:"preloadData"`
}

// System represents system-level configuration
type System struct {
	Stores map[string]StoreDefinition `yaml:"stores"`
}

// Config is the content of one function config file
type Config struct {
	Functions []Function `yaml:"functions"`
	System    *System    `yaml:"system"`

	// ConfigDir is the directory the file was loaded from.
	ConfigDir string `yaml:"-"`
}
