package model

// Signature is the hex-encoded content digest used as a duplicate key.
type Signature string

// Group holds files sharing one Signature in scan discovery order.
type Group struct {
	Signature Signature
	Members   []FileRef
}

// Disposition is the per-file outcome of resolution.
type Disposition int

const (
	// Keep leaves the file in place.
	Keep Disposition = iota
	// Quarantine relocates the file under the quarantine root.
	Quarantine
)

func (d Disposition) String() string {
	switch d {
	case Keep:
		return "keep"
	case Quarantine:
		return "quarantine"
	}

	return "unknown"
}

// Classification is what a classifier strategy emits for one file.
// Signature is set by the content strategy, Invalid and Reason by the
// validity strategy.
type Classification struct {
	File      FileRef
	Signature Signature
	Invalid   bool
	Reason    string
}

// Decision pairs a file with its disposition.
type Decision struct {
	File        FileRef
	Disposition Disposition
	Reason      string
}

// ResolvedGroup is a duplicate group after survivor selection.
type ResolvedGroup struct {
	Signature   Signature
	Survivor    FileRef
	Quarantined []FileRef
}

// Resolution is the resolver's output: the duplicate groups (empty for the
// validity strategy) and the flat list of decisions to quarantine, in the
// order they should be moved.
type Resolution struct {
	Groups     []ResolvedGroup
	Quarantine []Decision
}

// Decisions returns every decision, survivors included.
func (r Resolution) Decisions() []Decision {
	decisions := make([]Decision, 0, len(r.Quarantine)+len(r.Groups))
	for _, group := range r.Groups {
		decisions = append(decisions, Decision{File: group.Survivor, Disposition: Keep, Reason: "survivor"})
	}

	return append(decisions, r.Quarantine...)
}
