package api

import "net/http"

// handleIndex serves the browser form: law text in, data in, verdict and
// proof hash out.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>CLEARANCE</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 24px; line-height: 1.4; }
    .grid { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
    textarea { width: 100%; height: 180px; font-family: ui-monospace, monospace; }
    pre { background: #f6f7f9; padding: 12px; border-radius: 8px; overflow: auto; }
    button { padding: 10px 16px; border: 0; border-radius: 8px; background: #111; color: #fff; cursor: pointer; }
    .ok { color: #16794d; font-weight: 600; }
    .nok { color: #b00020; font-weight: 600; }
    .card { border: 1px solid #e5e7eb; border-radius: 12px; padding: 16px; }
    label { font-size: 12px; color: #555; }
  </style>
</head>
<body>
  <h1>CLEARANCE</h1>
  <p>Parse simple legal rules, check data against them, get a verdict and a proof hash.</p>

  <div class="grid">
    <div class="card">
      <h3>Rules</h3>
      <label>Law Title</label>
      <input id="law_title" style="width:100%;margin-bottom:8px" value="Demo snippet" />
      <label>Law Text (one rule per line)</label>
      <textarea id="law_text">require manufacturer
require category
in category [electronics, furniture]
max weight 50
</textarea>
    </div>

    <div class="card">
      <h3>Data</h3>
      <label>JSON document</label>
      <textarea id="data_json">{
  "manufacturer": "ACME",
  "category": "electronics",
  "weight": 42
}</textarea>
      <button onclick="runClearance()">Run CLEARANCE</button>
      <h4>Result</h4>
      <div id="result"></div>
      <h4>Proof Log</h4>
      <pre id="proof"></pre>
    </div>
  </div>

  <script>
    async function runClearance() {
      const law_title = document.getElementById('law_title').value;
      const law_text = document.getElementById('law_text').value;
      let data;
      try { data = JSON.parse(document.getElementById('data_json').value); }
      catch (e) { alert('Invalid JSON for data'); return; }

      const res = await fetch('/v1/clearance/check', {
        method: 'POST', headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ law_title, law_text, data })
      });
      const body = await res.json();
      if (!res.ok) {
        document.getElementById('result').innerHTML = '<span class="nok">' + body.code + '</span>: ' + body.message;
        document.getElementById('proof').textContent = '';
        return;
      }
      document.getElementById('proof').textContent = JSON.stringify(body, null, 2);
      const badge = body.verdict === 'COMPLIANT'
        ? '<span class="ok">COMPLIANT</span>'
        : '<span class="nok">NON-COMPLIANT</span>';
      document.getElementById('result').innerHTML =
        'Overall: ' + badge + '<br/>Proof Hash: <code>' + body.proof_hash + '</code>';
    }
  </script>
</body>
</html>
`
