package embedded

import "embed"

//go:embed migrations
var Migrations embed.FS

var (
	AppVersion = "dev"
	AppCommit  = "unknown"
	Release    = "false"
)
