package monitoring

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>DealerDesk Monitoring</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; background: #0f172a; color: #e2e8f0; margin: 0; padding: 24px; }
h1 { font-size: 20px; margin-bottom: 16px; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: 12px; }
.card { background: #1e293b; border-radius: 8px; padding: 16px; }
.card .label { font-size: 12px; color: #94a3b8; text-transform: uppercase; letter-spacing: .05em; }
.card .value { font-size: 24px; margin-top: 6px; }
.healthy { color: #4ade80; }
.unhealthy { color: #f87171; }
#alerts { margin-top: 24px; }
.alert { background: #1e293b; border-left: 4px solid #f87171; border-radius: 4px; padding: 10px 14px; margin-bottom: 8px; font-size: 14px; }
.alert.warning { border-left-color: #facc15; }
</style>
</head>
<body>
<h1>DealerDesk Monitoring</h1>
<div class="grid">
  <div class="card"><div class="label">Dealer API</div><div class="value" id="upstream">-</div></div>
  <div class="card"><div class="label">Response Time</div><div class="value" id="rt">-</div></div>
  <div class="card"><div class="label">Active Sessions</div><div class="value" id="sessions">-</div></div>
  <div class="card"><div class="label">Goroutines</div><div class="value" id="goroutines">-</div></div>
  <div class="card"><div class="label">Heap</div><div class="value" id="heap">-</div></div>
  <div class="card"><div class="label">CPU</div><div class="value" id="cpu">-</div></div>
  <div class="card"><div class="label">Memory</div><div class="value" id="memory">-</div></div>
  <div class="card"><div class="label">Disk</div><div class="value" id="disk">-</div></div>
  <div class="card"><div class="label">Uptime</div><div class="value" id="uptime">-</div></div>
</div>
<div id="alerts"></div>
<script>
function render(s) {
  var up = document.getElementById('upstream');
  up.textContent = s.upstream_status;
  up.className = 'value ' + s.upstream_status;
  document.getElementById('rt').textContent = s.response_time_ms + ' ms';
  document.getElementById('sessions').textContent = s.active_sessions;
  document.getElementById('goroutines').textContent = s.goroutines;
  document.getElementById('heap').textContent = s.heap_used;
  document.getElementById('cpu').textContent = s.cpu_percent.toFixed(1) + '%';
  document.getElementById('memory').textContent = s.memory_used + ' / ' + s.memory_total;
  document.getElementById('disk').textContent = s.disk_used + ' / ' + s.disk_total;
  document.getElementById('uptime').textContent = s.uptime;
}
function addAlert(a) {
  var div = document.createElement('div');
  div.className = 'alert ' + a.severity;
  div.textContent = '[' + a.severity + '] ' + a.message;
  document.getElementById('alerts').prepend(div);
}
fetch('/api/stats').then(function (r) { return r.json(); }).then(render);
fetch('/api/alerts').then(function (r) { return r.json(); }).then(function (alerts) {
  (alerts || []).forEach(addAlert);
});
var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
var ws = new WebSocket(proto + location.host + '/ws');
ws.onmessage = function (ev) {
  var msg = JSON.parse(ev.data);
  if (msg.kind === 'stats') render(msg.stats);
  if (msg.kind === 'alert') addAlert(msg.alert);
};
</script>
</body>
</html>
`
