package handlers

import "net/http"

// static policy pages served alongside the API so the service can be
// registered as an action by external integrations

const privacyHTML = `<!DOCTYPE html>
<html>
<head><title>Privacy Policy</title></head>
<body>
<h1>Privacy Policy</h1>
<p>Uploaded subtitle files are processed in memory and in short-lived working
directories, retained only long enough to produce the translated archive you
download. Subtitle text is sent to the configured translation provider for
processing; no uploaded content is used for any other purpose.</p>
<p>Request logs contain IP addresses and request paths, kept for operational
debugging only.</p>
</body>
</html>`

const termsHTML = `<!DOCTYPE html>
<html>
<head><title>Terms of Service</title></head>
<body>
<h1>Terms of Service</h1>
<p>This service translates subtitle files you are authorized to process.
Output quality depends on the upstream language model and is provided without
warranty. Do not submit content you lack the rights to translate.</p>
</body>
</html>`

func Privacy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(privacyHTML))
}

func Terms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(termsHTML))
}
