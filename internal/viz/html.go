package viz

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dynamicsector/dynamicsector/internal/starmap"
)

// Compiled at init time to fail fast on template errors.
var (
	fragment2DTemplate *template.Template
	page2DTemplate     *template.Template
	page3DTemplate     *template.Template
	emptyTemplate      *template.Template
	emptyFragment      *template.Template
)

func init() {
	fragment2DTemplate = template.Must(template.New("fragment2d").Parse(fragment2DHTML))
	page2DTemplate = template.Must(template.New("page2d").Parse(page2DHTML))
	page3DTemplate = template.Must(template.New("page3d").Parse(page3DHTML))
	emptyTemplate = template.Must(template.New("empty").Parse(emptyHTML))
	emptyFragment = template.Must(template.New("emptyfragment").Parse(emptyFragmentHTML))
}

const (
	visNetworkScript = "https://unpkg.com/vis-network@9.1.2/standalone/umd/vis-network.min.js"
	plotlyScript     = "https://cdn.plot.ly/plotly-2.35.2.min.js"
	networkElementID = "dsector-network"
	plotElementID    = "dsector-plot"
)

type fragment2DData struct {
	Script    string
	ElementID string
	Height    string
	Nodes     template.JS
	Edges     template.JS
	Options   template.JS
}

type pageData struct {
	Title     string
	Body      template.HTML
	Script    string
	ElementID string
	Figure    template.JS
	Config    template.JS
}

// Render2D returns an embeddable HTML fragment (library script, container
// div and init script) drawing the scene with vis-network. Node positions
// are fixed: physics is off and the layout is not hierarchical.
func Render2D(scene *starmap.Scene, opts Options) (string, error) {
	if scene == nil {
		return "", fmt.Errorf("scene cannot be nil")
	}
	opts = opts.withDefaults()

	if scene.Len() == 0 {
		return execute(emptyFragment, fragment2DData{ElementID: networkElementID, Height: opts.Height})
	}

	vis, err := toVisNetwork(scene)
	if err != nil {
		return "", err
	}
	return execute(fragment2DTemplate, fragment2DData{
		Script:    visNetworkScript,
		ElementID: networkElementID,
		Height:    opts.Height,
		Nodes:     template.JS(vis.Nodes),
		Edges:     template.JS(vis.Edges),
		Options:   template.JS(vis.Options),
	})
}

// Page2D wraps the 2D fragment in a standalone document.
func Page2D(scene *starmap.Scene, opts Options) (string, error) {
	opts = opts.withDefaults()
	if scene != nil && scene.Len() == 0 {
		return execute(emptyTemplate, pageData{Title: opts.Title})
	}
	fragment, err := Render2D(scene, opts)
	if err != nil {
		return "", err
	}
	return execute(page2DTemplate, pageData{Title: opts.Title, Body: template.HTML(fragment)})
}

// Render3D returns a complete HTML document embedding a plotly 3D figure.
func Render3D(scene *starmap.Scene, opts Options) (string, error) {
	if scene == nil {
		return "", fmt.Errorf("scene cannot be nil")
	}
	opts = opts.withDefaults()

	if scene.Len() == 0 {
		return execute(emptyTemplate, pageData{Title: opts.Title})
	}

	fig, config, err := toPlotlyJSON(scene)
	if err != nil {
		return "", err
	}
	return execute(page3DTemplate, pageData{
		Title:     opts.Title,
		Script:    plotlyScript,
		ElementID: plotElementID,
		Figure:    template.JS(fig),
		Config:    template.JS(config),
	})
}

// Render dispatches on mode: a fragment for 2D, a page for 3D.
func Render(scene *starmap.Scene, mode Mode, opts Options) (string, error) {
	switch mode {
	case Mode2D:
		return Render2D(scene, opts)
	case Mode3D:
		return Render3D(scene, opts)
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidMode, mode)
	}
}

// Document always returns a standalone page, for writing to disk.
func Document(scene *starmap.Scene, mode Mode, opts Options) (string, error) {
	switch mode {
	case Mode2D:
		return Page2D(scene, opts)
	case Mode3D:
		return Render3D(scene, opts)
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidMode, mode)
	}
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}

const fragment2DHTML = `<script type="text/javascript" src="{{.Script}}"></script>
<div id="{{.ElementID}}" style="width: 100%; height: {{.Height}}; background-color: #031101;"></div>
<script type="text/javascript">
(function () {
  var nodes = new vis.DataSet({{.Nodes}});
  var edges = new vis.DataSet({{.Edges}});
  var container = document.getElementById({{.ElementID}});
  new vis.Network(container, {nodes: nodes, edges: edges}, {{.Options}});
})();
</script>`

const page2DHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
</head>
<body style="background-color:black;">
{{.Body}}
</body>
</html>`

const page3DHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<script type="text/javascript" src="{{.Script}}" charset="utf-8"></script>
</head>
<body style="background-color:black;">
<div style="display: flex; justify-content: center;">
  <div id="{{.ElementID}}" style="width: 100%; height: 95vh;"></div>
</div>
<script type="text/javascript">
(function () {
  var fig = {{.Figure}};
  Plotly.newPlot({{.ElementID}}, fig.data, fig.layout, {{.Config}});
})();
</script>
</body>
</html>`

const emptyHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
  body {
    font-family: "Courier New", monospace;
    display: flex;
    justify-content: center;
    align-items: center;
    height: 100vh;
    margin: 0;
    background: black;
    color: #8bad6b;
  }
  .empty-state { text-align: center; }
</style>
</head>
<body>
  <div class="empty-state">
    <h2>No star systems</h2>
    <p>The system data table has no rows to draw.</p>
  </div>
</body>
</html>`

const emptyFragmentHTML = `<div id="{{.ElementID}}" style="width: 100%; height: {{.Height}}; background-color: #031101; color: #8bad6b; font-family: 'Courier New', monospace; display: flex; flex-direction: column; justify-content: center; align-items: center;">
  <h2>No star systems</h2>
  <p>The system data table has no rows to draw.</p>
</div>`
