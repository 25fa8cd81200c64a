package httpserver

// indexHTML is the minimal browser page for trying the executor by hand.
const indexHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Safe Code Executor</title></head>
<body>
  <h2>Safe Code Executor</h2>
  <textarea id="code" rows="12" cols="80" placeholder='print("Hello World")'></textarea><br/>
  <button onclick="run()">Run</button>
  <pre id="output" style="white-space:pre-wrap; background:#f6f6f6; padding:10px; border:1px solid #ddd;"></pre>
  <script>
    async function run(){
      const code = document.getElementById('code').value;
      const res = await fetch('/run', {
        method: 'POST',
        headers: {'Content-Type':'application/json'},
        body: JSON.stringify({code})
      });
      const data = await res.json();
      document.getElementById('output').textContent = JSON.stringify(data, null, 2);
    }
  </script>
</body>
</html>
`
