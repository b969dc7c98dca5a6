// Package frontend embeds the web assets served to the Wails webview
// and by the headless server.
package frontend

import (
	"embed"
	"io/fs"
)

//go:embed index.html app.js styles.css
var assets embed.FS

// Assets returns the embedded frontend filesystem
func Assets() fs.FS {
	return assets
}
