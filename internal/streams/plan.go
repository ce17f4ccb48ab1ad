package streams

import "os"

// Access describes the union of stream directions a target path must
// support.
type Access uint8

const (
	// ReadOnly serves stdin only.
	ReadOnly Access = 1 << iota
	// WriteOnly serves stdout and/or stderr only.
	WriteOnly
	// ReadWrite serves stdin plus at least one output slot.
	ReadWrite = ReadOnly | WriteOnly
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "read"
	case WriteOnly:
		return "write"
	case ReadWrite:
		return "read-write"
	default:
		return "none"
	}
}

// Target is one unique path the redirector will open, with the minimal
// access sufficient for every slot mapped to it.
type Target struct {
	Path   string
	Access Access
}

// Plan describes a full redirection: the per-slot targets and the
// deduplicated open list in first-appearance order.
type Plan struct {
	Stdin   string
	Stdout  string
	Stderr  string
	Targets []Target
}

// NewPlan builds the redirection plan for the three logical slots. Empty
// paths fall back to the platform null device.
func NewPlan(stdin, stdout, stderr string) Plan {
	if stdin == "" {
		stdin = os.DevNull
	}
	if stdout == "" {
		stdout = os.DevNull
	}
	if stderr == "" {
		stderr = os.DevNull
	}

	index := make(map[string]int, 3)
	var targets []Target
	add := func(path string, access Access) {
		if i, ok := index[path]; ok {
			targets[i].Access |= access
			return
		}
		index[path] = len(targets)
		targets = append(targets, Target{Path: path, Access: access})
	}
	add(stdin, ReadOnly)
	add(stdout, WriteOnly)
	add(stderr, WriteOnly)

	return Plan{Stdin: stdin, Stdout: stdout, Stderr: stderr, Targets: targets}
}

// TargetFor returns the unique target serving the given path.
func (p Plan) TargetFor(path string) (Target, bool) {
	for _, target := range p.Targets {
		if target.Path == path {
			return target, true
		}
	}
	return Target{}, false
}
