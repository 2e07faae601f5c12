package app

import (
	"fmt"
	"html"
)

// HelloApp is the hello-world page. Its buttons call the server functions
// mounted under Prefix.
type HelloApp struct {
	Prefix string
	Count  int
}

func NewHelloApp(prefix string) *HelloApp {
	return &HelloApp{Prefix: prefix}
}

func (a *HelloApp) Render() string {
	return fmt.Sprintf(`<h1>High-Five counter: <span id="count">%d</span></h1>
<button id="up">Up high!</button>
<button id="down">Down low!</button>
<button id="get" data-endpoint="%s">Get Server Data</button>
<button id="post" data-endpoint="%s">Post Server Data</button>
<button id="visits" data-endpoint="%s">Visits</button>
<p id="server-data"></p>`,
		a.Count,
		html.EscapeString(a.endpoint(GetServerDataKey)),
		html.EscapeString(a.endpoint(PostServerDataKey)),
		html.EscapeString(a.endpoint(VisitsKey)),
	)
}

func (a *HelloApp) endpoint(key string) string {
	return a.Prefix + key
}
