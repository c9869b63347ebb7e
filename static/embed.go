package static

import "embed"

// FS holds the browser assets served under /static/.
//
//go:embed dist
var FS embed.FS
