package handlers

import (
	"fmt"
)

// The stored HTML is served verbatim: no sanitization, no escaping. The page
// body is the user's document; the wrapper only adds a corner widget with the
// countdown and a copy-link button.

const notFoundHTML = `<html><body><div style="font-family:system-ui;padding:16px">No such page.</div></body></html>`

const expiredHTML = `<html><body><div style="font-family:system-ui;padding:16px">This temporary page has expired.</div></body></html>`

const errorHTML = `<html><body><div style="font-family:system-ui;padding:16px">Something went wrong. Try again shortly.</div></body></html>`

const pageShell = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Shared Content</title>
    <style>html,body{background:#fff;margin:0;padding:0}img{max-width:100%%;height:auto}</style>
  </head>
  <body>
%s
%s
  </body>
</html>
`

const metaWidget = `    <div id="_meta" style="position:fixed;right:8px;bottom:8px;z-index:9999;font:12px/1.2 system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;color:#444;background:rgba(255,255,255,0.7);padding:6px 8px;border-radius:6px">
      <span id="_time">%d</span>s
      <button id="_copy" style="margin-left:8px;background:#000;color:#fff;border:none;padding:4px 6px;border-radius:4px;cursor:pointer;font-size:12px">Copy link</button>
    </div>
    <script>
      (function(){
        var remaining = %d;
        var el = document.getElementById('_time');
        var iv = setInterval(function(){
          if(!el) return;
          if(remaining <= 0){ clearInterval(iv); location.reload(); return; }
          remaining -= 1; el.textContent = remaining;
        }, 1000);
        document.getElementById('_copy').addEventListener('click', async function(){
          try { await navigator.clipboard.writeText(window.location.href); this.textContent='Copied'; setTimeout(()=>this.textContent='Copy link',1200);} catch(e){}
        });
      })();
    </script>`

// renderPage embeds the raw content in the minimal wrapper with a live
// countdown. The content goes in untouched so whitespace-sensitive markup
// (pre, textarea) renders the way it was submitted. On reaching zero the
// widget reloads, which surfaces the 410.
func renderPage(content string, remainingSeconds int) string {
	widget := fmt.Sprintf(metaWidget, remainingSeconds, remainingSeconds)
	return fmt.Sprintf(pageShell, content, widget)
}
