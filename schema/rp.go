package schema

////////////////////////////////////////////////////////////////////////////////
// TYPES

// RpCreateDir acknowledges a create_dir call.
type RpCreateDir struct{}

// RpRead carries the metadata of the object a read was opened against. The
// byte content is delivered by the paired Reader.
type RpRead struct {
	Metadata Metadata `json:"metadata"`
}

// RpWrite acknowledges that a write session was opened. Bytes are staged
// through the paired Writer and become durable only when it closes.
type RpWrite struct{}

// RpStat carries the metadata for a stat call.
type RpStat struct {
	Metadata Metadata `json:"metadata"`
}

// RpDelete acknowledges a delete call.
type RpDelete struct{}

// RpList acknowledges that a listing was opened. Entries are delivered by
// the paired Pager.
type RpList struct{}

// RpScan acknowledges that a recursive listing was opened.
type RpScan struct{}

// RpCopy acknowledges a copy call.
type RpCopy struct{}

// RpBatch maps every submitted path to its independent outcome: nil for
// success, an error otherwise. One path's failure never removes or fails
// another path's entry.
type RpBatch struct {
	Results map[string]error `json:"-"`
}

// RpPresign carries a signed URL.
type RpPresign struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Succeeded returns the number of paths in the batch which completed
// without error.
func (rp RpBatch) Succeeded() int {
	var n int
	for _, err := range rp.Results {
		if err == nil {
			n++
		}
	}
	return n
}
