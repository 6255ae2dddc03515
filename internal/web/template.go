package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/breath-sync/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%.2f%%", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>BreathSync</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2em auto; padding: 0 1em; }
body.day { background: #f4f7fb; color: #223; }
body.night { background: #10131c; color: #cdd; }
h1 { font-size: 1.4em; }
#stage { position: relative; width: 100%; aspect-ratio: 1; border-radius: 12px; overflow: hidden; }
body.day #stage { background: #dfe9f5; }
body.night #stage { background: #1b2130; }
#target { position: absolute; width: 64px; height: 64px; margin: -32px 0 0 -32px; border-radius: 50%; transition: transform 1s ease-in-out; }
body.day #target { background: #4a90d9; }
body.night #target { background: #7a5fc0; }
#target.INHALE, #target.HOLD_AFTER_INHALE { transform: scale(1.6); }
#overlay { position: absolute; inset: 0; display: flex; align-items: center; justify-content: center; font-size: 4em; }
#info { display: flex; justify-content: space-between; margin: 1em 0; font-size: 1.3em; }
.controls button { margin: 0 4px 8px 0; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; font-family: monospace; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #8884; }
th { width: 40%; }
</style>
</head>
<body class="{{.Session.Theme}}">
<h1>BreathSync</h1>

<div id="stage">
<div id="target" class="{{.Session.Phase}}" style="left: {{pct .Session.Current.X}}; top: {{pct .Session.Current.Y}}"></div>
<div id="overlay">{{if eq .Session.Status "COUNTDOWN"}}{{.Session.Countdown}}{{end}}</div>
</div>

<div id="info">
<span id="instruction">{{if eq .Session.Status "ACTIVE"}}{{.Session.Instruction}}{{else if eq .Session.Status "IDLE"}}Ready{{end}}</span>
<span id="remaining">{{if eq .Session.Status "ACTIVE"}}{{.Session.Remaining}}{{end}}</span>
</div>

<div class="controls">
<button data-preset="60">1 min</button>
<button data-preset="120">2 min</button>
<button data-preset="300">5 min</button>
<button id="toggle">Start / Stop</button>
<button id="theme">Theme</button>
</div>

<h2>Status</h2>
<table>
<tr><th>Session</th><td id="status">{{.Session.Status}}</td></tr>
<tr><th>Duration</th><td>{{.Session.DurationSeconds}}s</td></tr>
<tr><th>Sessions started</th><td>{{.Counts.SessionsStarted}}</td></tr>
<tr><th>Sessions completed</th><td>{{.Counts.SessionsCompleted}}</td></tr>
<tr><th>Breath cycles</th><td>{{.Counts.BreathCycles}}</td></tr>
<tr><th>MQTT</th><td>{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}}) {{.Network.IP}}</td></tr>{{end}}
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>

<script>
(function() {
  var target = document.getElementById("target");
  var overlay = document.getElementById("overlay");
  var instruction = document.getElementById("instruction");
  var remaining = document.getElementById("remaining");
  var statusEl = document.getElementById("status");
  var current = { theme: "{{.Session.Theme}}", status: "{{.Session.Status}}", duration_seconds: {{.Session.DurationSeconds}} };

  function render(s) {
    current = s;
    document.body.className = s.theme;
    target.style.left = s.current.x + "%";
    target.style.top = s.current.y + "%";
    target.className = s.phase;
    statusEl.textContent = s.status;
    overlay.textContent = s.status === "COUNTDOWN" ? s.countdown : "";
    instruction.textContent = s.status === "ACTIVE" ? s.instruction : (s.status === "IDLE" ? "Ready" : "");
    remaining.textContent = s.status === "ACTIVE" ? s.remaining : "";
  }

  function post(path, body) {
    fetch(path, { method: "POST", body: body ? JSON.stringify(body) : null });
  }

  document.querySelectorAll("[data-preset]").forEach(function(b) {
    b.onclick = function() { post("/api/configure", { preset: parseInt(b.dataset.preset, 10) }); };
  });
  document.getElementById("toggle").onclick = function() { post("/api/toggle"); };
  // A preset while running cancels the session, so themes change only when idle.
  document.getElementById("theme").onclick = function() {
    if (current.status !== "IDLE") { return; }
    post("/api/configure", { preset: current.duration_seconds, theme: current.theme === "night" ? "day" : "night" });
  };

  function connect() {
    var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    ws.onmessage = function(ev) {
      try {
        var msg = JSON.parse(ev.data);
        if (msg.payload && msg.payload.session) {
          render(msg.payload.session);
        }
      } catch (e) {}
    };
    ws.onclose = function() { setTimeout(connect, 5000); };
  }
  connect();
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Session status.SessionJSON
		Uptime  time.Duration
	}{
		Snapshot: snap,
		Session:  status.Session(snap.Session),
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
