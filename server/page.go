package server

// indexHTML is formatted with the canvas width, height and background.
// Literal percent signs are doubled.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>forcepad</title>
  <style>
    body {
      font-family: 'Helvetica Neue', Arial, sans-serif;
      margin: 0;
      padding: 20px;
      background: #f5f5f5;
      color: #333;
    }
    .toolbar { margin-bottom: 10px; }
    .btn {
      background: #4285f4;
      color: white;
      border: none;
      padding: 8px 16px;
      border-radius: 4px;
      cursor: pointer;
      font-size: 14px;
    }
    .btn.active { background: #1a56c4; }
    .status { margin-left: 10px; color: #777; font-size: 13px; }
    canvas { display: block; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
  </style>
</head>
<body>
  <div class="toolbar">
    <button class="btn" data-mode="add">Add</button>
    <button class="btn" data-mode="remove">Remove</button>
    <button class="btn" data-mode="move">Move</button>
    <button class="btn" data-mode="connect">Connect</button>
    <label><input type="checkbox" id="directed" checked> directed</label>
    <span class="status" id="status">connecting</span>
  </div>
  <canvas id="canvas" width="%[1]g" height="%[2]g"></canvas>
  <script>
    const canvas = document.getElementById('canvas');
    const ctx = canvas.getContext('2d');
    const status = document.getElementById('status');
    const background = '%[3]s';
    const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');

    function send(msg) {
      if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
    }

    function pos(e) {
      const r = canvas.getBoundingClientRect();
      return { x: e.clientX - r.left, y: e.clientY - r.top };
    }

    canvas.addEventListener('mousemove', e => send({ type: 'move', ...pos(e) }));
    canvas.addEventListener('mousedown', e => { if (e.button === 0) send({ type: 'press', ...pos(e) }); });
    window.addEventListener('mouseup', e => { if (e.button === 0) send({ type: 'release', ...pos(e) }); });
    canvas.addEventListener('contextmenu', e => { e.preventDefault(); send({ type: 'toggle', ...pos(e) }); });

    document.querySelectorAll('[data-mode]').forEach(b =>
      b.addEventListener('click', () => send({ type: 'mode', mode: b.dataset.mode })));
    document.getElementById('directed').addEventListener('change', e =>
      send({ type: 'directed', directed: e.target.checked }));

    function line(a, b) {
      ctx.beginPath();
      ctx.moveTo(a.x, a.y);
      ctx.lineTo(b.x, b.y);
      ctx.stroke();
    }

    function draw(snap) {
      ctx.globalAlpha = 1;
      ctx.fillStyle = background;
      ctx.fillRect(0, 0, canvas.width, canvas.height);

      ctx.lineCap = 'round';
      for (const e of snap.edges || []) {
        ctx.globalAlpha = e.opacity;
        ctx.strokeStyle = e.color;
        ctx.lineWidth = e.stroke_width;
        if (snap.directed) {
          line(e.arrow.shaft_from, e.arrow.shaft_to);
          line(e.arrow.shaft_to, e.arrow.left);
          line(e.arrow.shaft_to, e.arrow.right);
        } else {
          line(e.from, e.to);
        }
      }

      ctx.globalAlpha = 1;
      for (const n of snap.nodes || []) {
        const scale = (n.highlighted || n.hovered) ? 1.1 : 1;
        ctx.beginPath();
        ctx.arc(n.position.x, n.position.y, n.radius * scale, 0, 2 * Math.PI);
        ctx.fillStyle = n.fill_color;
        ctx.fill();
        ctx.lineWidth = n.border_width;
        ctx.strokeStyle = n.border_color;
        ctx.stroke();
      }

      document.querySelectorAll('[data-mode]').forEach(b =>
        b.classList.toggle('active', b.dataset.mode === snap.mode));
      status.textContent = snap.mode + ' | frame ' + snap.frame +
        ' | ' + (snap.nodes || []).length + ' nodes, ' + (snap.edges || []).length + ' edges';
    }

    ws.onmessage = m => draw(JSON.parse(m.data));
    ws.onclose = () => { status.textContent = 'disconnected'; };
  </script>
</body>
</html>
`
