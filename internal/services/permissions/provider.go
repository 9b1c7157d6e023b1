package permissions

// CommandPerms is implemented by commands gated behind a permission
// domain.
type CommandPerms interface {
	Perm() string
	SubPerms() []SubCommandPerms
}

// SubCommandPerms describes an additional permission of a sub command.
type SubCommandPerms struct {
	Perm        string
	Explicit    bool
	Description string
}
