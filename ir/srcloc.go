package ir

// SourceLocation records where in a source text an entity originated.
// Lines and columns are 1-based; 0 means "unknown". A location with an
// empty File and a zero Line denotes "no location" and is represented as a
// nil *SourceLocation on Value and Operation rather than a zero value.
type SourceLocation struct {
	File      string
	Line      uint32
	Column    uint32
	EndLine   uint32
	EndColumn uint32
}

// IsAbsent reports whether loc (possibly nil) carries no usable location.
func (loc *SourceLocation) IsAbsent() bool {
	return loc == nil || (loc.File == "" && loc.Line == 0)
}
