package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/mlund/dcf77clock/internal/status"
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
	"weekdayName": func(w int) string {
		names := []string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
		if w < 1 || w > 7 {
			return "?"
		}
		return names[w]
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>DCF77 Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.good { color: green; font-weight: bold; }
.fair { color: orange; }
.poor { color: red; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>DCF77 Clock{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Reception</h2>
<table>
<tr><th>Score</th><td id="score" class="{{if ge .Score 70}}good{{else if ge .Score 40}}fair{{else}}poor{{end}}">{{.Score}}</td></tr>
<tr><th>Line 1</th><td id="line1">{{.Line1}}</td></tr>
<tr><th>Line 2</th><td id="line2">{{.Line2}}</td></tr>
<tr><th>Line 3</th><td id="line3">{{.Line3}}</td></tr>
</table>

<h2>Decoded Time</h2>
<table>
{{if .LastFrame}}
<tr><th>Time</th><td>{{printf "%02d:%02d" .LastFrame.Hour .LastFrame.Minute}}</td></tr>
<tr><th>Date</th><td>{{printf "%02d/%02d/%02d" .LastFrame.Day .LastFrame.Month .LastFrame.Year}} ({{weekdayName .LastFrame.Weekday}})</td></tr>
<tr><th>Frames decoded</th><td>{{.FramesDecoded}}</td></tr>
<tr><th>Frames agree</th><td>{{if .FramesAgree}}yes{{else}}no{{end}}</td></tr>
{{else}}
<tr><th>Time</th><td>no frame decoded yet</td></tr>
{{end}}
</table>

<h2>Pulse Counts</h2>
<table>
<tr><th>Edges</th><td>{{.EdgeCount}}</td></tr>
<tr><th>Pulses</th><td>{{.PulseCount}}</td></tr>
<tr><th>Short</th><td>{{.Counts.Short}}</td></tr>
<tr><th>Long</th><td>{{.Counts.Long}}</td></tr>
<tr><th>Other</th><td>{{.Counts.Other}}</td></tr>
<tr><th>Second-like</th><td>{{.Counts.SecLike}}</td></tr>
<tr><th>59th-second-like</th><td>{{.Counts.Tick59Like}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td id="mqtt-state" class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Report interval</th><td>{{.Config.ReportIntervalMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceUs}}us</td></tr>
<tr><th>GPIO chip</th><td>{{.Config.GPIOChip}}</td></tr>
<tr><th>Signal line</th><td>{{.Config.SignalLine}}</td></tr>
<tr><th>Power enable line</th><td>{{.Config.PowerEnableLine}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> &middot; <a href="/metrics">Metrics</a></p>
{{if .Config.WSBroker}}
<script src="/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "clock/dcf77clock/sensor/decode";
  var dot = document.getElementById("live-dot");
  var scoreEl = document.getElementById("score");
  var line1El = document.getElementById("line1");
  var line2El = document.getElementById("line2");
  var line3El = document.getElementById("line3");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (msg.decode) {
        scoreEl.textContent = msg.decode.score;
        scoreEl.className = msg.decode.score >= 70 ? "good" : msg.decode.score >= 40 ? "fair" : "poor";
        line1El.textContent = msg.decode.line1;
        line2El.textContent = msg.decode.line2;
        line3El.textContent = msg.decode.line3;
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has an Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
