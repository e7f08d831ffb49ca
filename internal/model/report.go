package model

// Strategy names the classification strategy of a run.
type Strategy string

const (
	// StrategyContentSignature groups files by content digest.
	StrategyContentSignature Strategy = "content-signature"
	// StrategyValidity flags files that fail to decode as images.
	StrategyValidity Strategy = "validity"
)

// Stage identifies a pipeline stage for progress reporting.
type Stage string

const (
	// StageClassify is the hashing or decoding stage.
	StageClassify Stage = "classify"
	// StageMove is the quarantine stage.
	StageMove Stage = "move"
)

// Progress is a snapshot emitted at percentage boundaries.
type Progress struct {
	Stage   Stage
	Done    int
	Total   int
	Percent int
	Found   int // invalid files seen so far by the validity strategy
}

// MoveResult reports the outcome of quarantining one file.
type MoveResult struct {
	File        FileRef
	Destination Path
	Err         error
}

// Moved reports whether the file was relocated (or would be, in a dry run).
func (r MoveResult) Moved() bool {
	return r.Err == nil
}

// Summary holds the totals of a run.
type Summary struct {
	Root       Path
	Strategy   Strategy
	FilesFound int
	Groups     int
	Invalid    int
	Moved      int
	Failed     int
	BytesMoved int64
	DryRun     bool
}

// RunReport is everything a run decided and did, for the optional report
// file.
type RunReport struct {
	Summary   Summary
	Groups    []ResolvedGroup
	Invalid   []Decision
	Decisions []Decision // survivors kept, then files to quarantine
	Moves     []MoveResult
}
