package remote

import (
	"encoding/json"
	"strings"
)

// OfflineID is the id of the optional element the client script unhides
// while the socket is down.
const OfflineID = "pagekit-offline"

// ClientScript returns the browser half of the protocol: it opens a socket
// to path on the page's own host, announces location.href, applies
// pushState and replaceState frames, and reports back navigation.
func ClientScript(path string) string {
	quoted, _ := json.Marshal(path)
	return strings.NewReplacer("__PATH__", string(quoted), "__OFFLINE__", OfflineID).Replace(clientScript)
}

const clientScript = `(function() {
    'use strict';

    var delay = 1000;
    var maxDelay = 30000;
    var ws = null;

    function offline(down) {
        var el = document.getElementById('__OFFLINE__');
        if (el) {
            el.hidden = !down;
        }
    }

    function send(op) {
        if (ws && ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify({op: op, url: location.href}));
        }
    }

    function connect() {
        var scheme = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(scheme + '//' + location.host + __PATH__);

        ws.onopen = function() {
            delay = 1000;
            offline(false);
            send('hello');
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            if (msg.op === 'pushState') {
                history.pushState('', msg.title || document.title, msg.url);
            } else if (msg.op === 'replaceState') {
                history.replaceState('', msg.title || document.title, msg.url);
            }
        };

        ws.onclose = function() {
            offline(true);
            setTimeout(function() {
                delay = Math.min(delay * 2, maxDelay);
                connect();
            }, delay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    window.addEventListener('popstate', function() {
        send('popstate');
    });

    connect();
})();
`
