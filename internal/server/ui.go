package server

import (
	"html/template"
	"log"
	"net/http"

	"github.com/dynamicsector/dynamicsector/internal/viz"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

type dashboardData struct {
	Title   string
	Mode    string
	Version string
}

// handleIndex serves the dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	title := s.cfg.Title
	if title == "" {
		title = viz.DefaultTitle
	}
	mode, err := viz.ParseMode(s.cfg.Mode)
	if err != nil {
		mode = viz.Mode3D
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, dashboardData{
		Title:   title,
		Mode:    string(mode),
		Version: s.Version,
	}); err != nil {
		log.Printf("[API] dashboard: %v", err)
	}
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="generator" content="dsector {{.Version}}">
<title>{{.Title}}</title>
<style>
body { margin: 0; background: #111; color: #ddd; font-family: Georgia, serif; }
header { display: flex; gap: 2em; align-items: center; padding: 0.8em 1.2em; flex-wrap: wrap; }
h1 { font-size: 1.3em; margin: 0 1em 0 0; color: #8bad6b; }
.upload { border: 1px dashed #666; padding: 0.5em 1em; cursor: pointer; }
.upload input { display: none; }
.status { font-size: 0.85em; margin-left: 0.5em; }
.status.error { color: #e05050; }
#message { color: #e0a050; padding: 0 1.2em; min-height: 1.2em; }
iframe { border: 0; width: 100%; height: calc(100vh - 6em); background: #000; }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <label class="upload">System Data
    <input type="file" data-kind="systems">
    <span class="status" id="status-systems"></span>
  </label>
  <label class="upload">Sector Map
    <input type="file" data-kind="sectors">
    <span class="status" id="status-sectors"></span>
  </label>
  <span>
    <label><input type="radio" name="mode" value="2d"{{if eq .Mode "2d"}} checked{{end}}> 2D</label>
    <label><input type="radio" name="mode" value="3d"{{if eq .Mode "3d"}} checked{{end}}> 3D</label>
  </span>
  <button id="reset">Reset</button>
</header>
<div id="message"></div>
<iframe id="output" title="Star map"></iframe>
<script>
(function () {
  var ready = {systems: false, sectors: false};

  function mode() {
    return document.querySelector('input[name=mode]:checked').value;
  }

  function setStatus(kind, text, failed) {
    var el = document.getElementById('status-' + kind);
    el.textContent = text;
    el.className = failed ? 'status error' : 'status';
  }

  function render() {
    var msg = document.getElementById('message');
    if (!ready.systems || !ready.sectors) {
      msg.textContent = 'Upload system data and a sector map to draw the map.';
      return;
    }
    msg.textContent = '';
    fetch('/api/render?mode=' + mode(), {credentials: 'same-origin'}).then(function (resp) {
      if (resp.ok) {
        return resp.text().then(function (html) {
          document.getElementById('output').srcdoc = html;
        });
      }
      return resp.json().then(function (body) { msg.textContent = body.error; });
    });
  }

  function upload(kind, file) {
    var reader = new FileReader();
    reader.onload = function () {
      fetch('/api/upload/' + kind, {
        method: 'POST',
        credentials: 'same-origin',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({filename: file.name, contents: reader.result})
      }).then(function (resp) {
        return resp.json().then(function (body) {
          if (resp.ok) {
            ready[kind] = true;
            setStatus(kind, 'Stored: ' + body.stored, false);
          } else {
            ready[kind] = false;
            setStatus(kind, body.error, true);
          }
          render();
        });
      });
    };
    reader.readAsDataURL(file);
  }

  document.querySelectorAll('input[type=file]').forEach(function (input) {
    input.addEventListener('change', function () {
      if (input.files.length) upload(input.dataset.kind, input.files[0]);
    });
  });
  document.querySelectorAll('input[name=mode]').forEach(function (input) {
    input.addEventListener('change', render);
  });
  document.getElementById('reset').addEventListener('click', function () {
    fetch('/api/session', {method: 'DELETE', credentials: 'same-origin'}).then(function () {
      ready = {systems: false, sectors: false};
      setStatus('systems', '', false);
      setStatus('sectors', '', false);
      document.getElementById('output').srcdoc = '';
      render();
    });
  });

  fetch('/api/session', {credentials: 'same-origin'}).then(function (resp) {
    return resp.json();
  }).then(function (body) {
    body.uploads.forEach(function (u) {
      ready[u.kind] = true;
      setStatus(u.kind, 'Stored: ' + u.filename, false);
    });
    render();
  });
})();
</script>
</body>
</html>
`
